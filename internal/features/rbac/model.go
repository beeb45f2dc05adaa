package rbac

import "go-chms/internal/common/models"

type RoleInput struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName,omitempty"`
	Description string         `json:"description,omitempty"`
	Level       int            `json:"level"`
	ParentID    *models.RoleID `json:"parentId,omitempty"`
}

type PermissionInput struct {
	Action      string `json:"action"`
	Subject     string `json:"subject"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
}

type UserRoleInput struct {
	UserID string        `json:"userId"`
	RoleID models.RoleID `json:"roleId"`
}

type RolePermissionInput struct {
	RoleID       models.RoleID       `json:"roleId"`
	PermissionID models.PermissionID `json:"permissionId"`
}
