package auth

import (
	"strings"

	"go-chms/internal/common/models"
)

// RoleSource names the user field the effective roles were taken from.
type RoleSource string

const (
	SourceRoles        RoleSource = "roles"
	SourceRoleIDs      RoleSource = "roleIds"
	SourcePrimaryRole  RoleSource = "primaryRole"
	SourceUserBranches RoleSource = "userBranches"
	SourceNone         RoleSource = "none"
)

type roleStrategy struct {
	source  RoleSource
	extract func(u *models.User) []string
}

// roleStrategies are tried in order; the first non-empty result wins.
var roleStrategies = []roleStrategy{
	{SourceRoles, func(u *models.User) []string { return u.Roles }},
	{SourceRoleIDs, func(u *models.User) []string { return u.RoleIDs }},
	{SourcePrimaryRole, func(u *models.User) []string { return []string{u.PrimaryRole} }},
	{SourceUserBranches, func(u *models.User) []string {
		var names []string
		for _, b := range u.UserBranches {
			if b.Role != nil {
				names = append(names, b.Role.Name)
			}
		}
		return names
	}},
}

// EffectiveRoles returns the user's role names and where they came from.
func EffectiveRoles(u *models.User) ([]string, RoleSource) {
	if u == nil {
		return nil, SourceNone
	}
	for _, s := range roleStrategies {
		if names := cleanNames(s.extract(u)); len(names) > 0 {
			return names, s.source
		}
	}
	return nil, SourceNone
}

func cleanNames(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// RolePriority orders the roles considered for the primary role, highest first.
var RolePriority = []string{
	models.RoleSuperAdmin,
	models.RoleBranchAdmin,
	models.RoleSubscriptionManager,
	models.RoleFinanceManager,
	models.RolePastoralStaff,
	models.RoleMinistryLeader,
	models.RoleMember,
}

// ResolvePrimaryRole picks the highest-priority role the user holds, else the
// first listed role, else MEMBER.
func ResolvePrimaryRole(names []string) string {
	held := models.NewRoleSet(names...)
	for _, r := range RolePriority {
		if held.Contains(r) {
			return r
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return models.RoleMember
}

// ResolveUser fills Roles and PrimaryRole from whichever source carries roles.
func ResolveUser(u *models.User) RoleSource {
	roles, source := EffectiveRoles(u)
	u.Roles = roles
	if u.Roles == nil {
		u.Roles = []string{}
	}
	u.PrimaryRole = ResolvePrimaryRole(roles)
	return source
}
