package models

type BranchRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MemberRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type RoleRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UserBranch is a branch assignment; its role is the last source consulted
// when a payload carries no other role information.
type UserBranch struct {
	BranchID string     `json:"branchId,omitempty"`
	Branch   *BranchRef `json:"branch,omitempty"`
	Role     *RoleRef   `json:"role,omitempty"`
}

// User is the session-resolved user persisted under the userData key.
type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Roles          []string       `json:"roles"`
	RoleIDs        []string       `json:"roleIds,omitempty"`
	PrimaryRole    string         `json:"primaryRole"`
	UserBranches   []UserBranch   `json:"userBranches"`
	OrganisationID string         `json:"organisationId"`
	Member         *MemberRef     `json:"member,omitempty"`
	Branch         *BranchRef     `json:"branch,omitempty"`
	Permissions    []PermissionID `json:"permissions,omitempty"`
	Modules        []ModuleID     `json:"modules,omitempty"`
}

func (u *User) PermissionSet() PermissionSet {
	if u == nil {
		return NewPermissionSet()
	}
	return NewPermissionSet(u.Permissions...)
}

func (u *User) ModuleSet() ModuleSet {
	if u == nil {
		return NewModuleSet()
	}
	return NewModuleSet(u.Modules...)
}
