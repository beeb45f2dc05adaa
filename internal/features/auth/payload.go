package auth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go-chms/internal/common/models"
)

// RoleRefs decodes a "roles" field that may hold role names, {id,name}
// objects, or a mix of both.
type RoleRefs []models.RoleRef

func (r *RoleRefs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("roles: %w", err)
	}

	out := make(RoleRefs, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, models.RoleRef{Name: name})
			continue
		}
		var ref models.RoleRef
		if err := json.Unmarshal(item, &ref); err != nil {
			return fmt.Errorf("roles: unsupported entry %s", item)
		}
		out = append(out, ref)
	}
	*r = out
	return nil
}

// RawUser is the user object of the login response as the API sends it.
type RawUser struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	FirstName      string                `json:"firstName"`
	LastName       string                `json:"lastName"`
	Roles          RoleRefs              `json:"roles"`
	RoleIDs        []string              `json:"roleIds"`
	PrimaryRole    string                `json:"primaryRole"`
	UserBranches   []models.UserBranch   `json:"userBranches"`
	OrganisationID string                `json:"organisationId"`
	Member         *models.MemberRef     `json:"member"`
	Branch         *models.BranchRef     `json:"branch"`
	Permissions    []models.PermissionID `json:"permissions"`
	Modules        []models.ModuleID     `json:"modules"`
}

// Normalize converts the payload into a User whose Roles are plain names.
// Role resolution is applied separately.
func (u *RawUser) Normalize() *models.User {
	roles := make([]string, 0, len(u.Roles))
	for _, ref := range u.Roles {
		if ref.Name != "" {
			roles = append(roles, ref.Name)
		}
	}

	name := u.Name
	if name == "" {
		name = joinName(u.FirstName, u.LastName)
	}

	return &models.User{
		ID:             u.ID,
		Email:          u.Email,
		Name:           name,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Roles:          roles,
		RoleIDs:        append([]string(nil), u.RoleIDs...),
		PrimaryRole:    u.PrimaryRole,
		UserBranches:   append([]models.UserBranch(nil), u.UserBranches...),
		OrganisationID: u.OrganisationID,
		Member:         u.Member,
		Branch:         u.Branch,
		Permissions:    append([]models.PermissionID(nil), u.Permissions...),
		Modules:        append([]models.ModuleID(nil), u.Modules...),
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
