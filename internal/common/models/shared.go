package models

import (
	"encoding/json"
	"strings"
)

// Typed identifiers. Every component joins on these, never on display names.
type (
	ModuleID     string
	RoleID       string
	PermissionID string
)

// Role names referenced by the gating rules. They are opaque identifiers:
// access decisions test membership, never rank.
const (
	RoleGodMode             = "GOD_MODE"
	RoleSystemAdmin         = "SYSTEM_ADMIN"
	RoleAdmin               = "ADMIN"
	RoleSuperAdmin          = "SUPER_ADMIN"
	RoleBranchAdmin         = "BRANCH_ADMIN"
	RoleSubscriptionManager = "SUBSCRIPTION_MANAGER"
	RoleFinanceManager      = "FINANCE_MANAGER"
	RolePastoralStaff       = "PASTORAL_STAFF"
	RoleMinistryLeader      = "MINISTRY_LEADER"
	RoleMember              = "MEMBER"
)

type ModuleCategory string

const (
	CategoryAdmin  ModuleCategory = "ADMIN"
	CategoryCore   ModuleCategory = "CORE"
	CategoryShared ModuleCategory = "SHARED"
)

// UnmarshalJSON accepts any casing ("Admin", "admin", "ADMIN").
func (c *ModuleCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ModuleCategory(strings.ToUpper(strings.TrimSpace(s)))
	return nil
}

// Module is a named feature area of the dashboard for the current organisation.
type Module struct {
	ID           ModuleID          `json:"id" bson:"id"`
	Name         string            `json:"name" bson:"name"`
	Description  string            `json:"description" bson:"description"`
	Path         string            `json:"path" bson:"path"`
	Icon         string            `json:"icon" bson:"icon"`
	Category     ModuleCategory    `json:"category" bson:"category"`
	Enabled      bool              `json:"enabled" bson:"enabled"`
	Version      string            `json:"version" bson:"version"`
	Dependencies []ModuleID        `json:"dependencies" bson:"dependencies"`
	Features     []string          `json:"features" bson:"features"`
	Permissions  []PermissionID    `json:"permissions" bson:"permissions"`
	Metadata     map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

func (m Module) DependencySet() ModuleSet {
	return NewModuleSet(m.Dependencies...)
}

// Clone returns a deep copy so callers can never mutate registry state.
func (m Module) Clone() Module {
	out := m
	out.Dependencies = append([]ModuleID(nil), m.Dependencies...)
	out.Features = append([]string(nil), m.Features...)
	out.Permissions = append([]PermissionID(nil), m.Permissions...)
	if m.Metadata != nil {
		out.Metadata = make(map[string]string, len(m.Metadata))
		for k, v := range m.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func CloneModules(modules []Module) []Module {
	if modules == nil {
		return nil
	}
	out := make([]Module, len(modules))
	for i, m := range modules {
		out[i] = m.Clone()
	}
	return out
}

type Permission struct {
	ID          PermissionID `json:"id" bson:"id"`
	Action      string       `json:"action" bson:"action"`
	Subject     string       `json:"subject" bson:"subject"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Category    string       `json:"category" bson:"category"`
	IsSystem    bool         `json:"isSystem" bson:"is_system"`
}

type Role struct {
	ID          RoleID       `json:"id" bson:"id"`
	Name        string       `json:"name" bson:"name"`
	DisplayName string       `json:"displayName,omitempty" bson:"display_name,omitempty"`
	Level       int          `json:"level" bson:"level"` // lower = more authority; informational only
	ParentID    *RoleID      `json:"parentId,omitempty" bson:"parent_id,omitempty"`
	IsSystem    bool         `json:"isSystem" bson:"is_system"`
	Permissions []Permission `json:"permissions,omitempty" bson:"permissions,omitempty"`
	Modules     []Module     `json:"modules,omitempty" bson:"modules,omitempty"`
}
