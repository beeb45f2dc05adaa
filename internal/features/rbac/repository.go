package rbac

import (
	"context"

	"go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/graphql"
)

type RoleRepository interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
	FindRole(ctx context.Context, id models.RoleID) (*models.Role, error)
	FindRolePermissions(ctx context.Context, roleID models.RoleID) ([]models.Permission, error)
	FindRoleModules(ctx context.Context, roleID models.RoleID) ([]models.Module, error)
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	ListPermissionsByCategory(ctx context.Context, category string) ([]models.Permission, error)
	ListModules(ctx context.Context) ([]models.Module, error)
	FindModuleByPath(ctx context.Context, path string) (*models.Module, error)

	CreateRole(ctx context.Context, input RoleInput) (*models.Role, error)
	UpdateRole(ctx context.Context, id models.RoleID, input RoleInput) (*models.Role, error)
	DeleteRole(ctx context.Context, id models.RoleID) error
	AssignRoleToUser(ctx context.Context, userID string, roleID models.RoleID) error
	RemoveRoleFromUser(ctx context.Context, userID string, roleID models.RoleID) error
	CreatePermission(ctx context.Context, input PermissionInput) (*models.Permission, error)
	UpdatePermission(ctx context.Context, id models.PermissionID, input PermissionInput) (*models.Permission, error)
	DeletePermission(ctx context.Context, id models.PermissionID) error
	AssignPermissionToRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error
	RemovePermissionFromRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error
}

type RoleRepositoryImpl struct {
	client   graphql.Doer
	pageSize int
}

func NewRoleRepository(client *graphql.Client, cfg *config.Config) RoleRepository {
	return &RoleRepositoryImpl{client: client, pageSize: cfg.ModulePageSize}
}

func (r *RoleRepositoryImpl) ListRoles(ctx context.Context) ([]models.Role, error) {
	var out struct {
		Roles []models.Role `json:"roles"`
	}
	if err := r.client.Do(ctx, queryRoles, nil, &out); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

func (r *RoleRepositoryImpl) FindRole(ctx context.Context, id models.RoleID) (*models.Role, error) {
	var out struct {
		Role *models.Role `json:"role"`
	}
	if err := r.client.Do(ctx, queryRole, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return out.Role, nil
}

func (r *RoleRepositoryImpl) FindRolePermissions(ctx context.Context, roleID models.RoleID) ([]models.Permission, error) {
	var out struct {
		Permissions []models.Permission `json:"rolePermissions"`
	}
	if err := r.client.Do(ctx, queryRolePermissions, map[string]any{"roleId": roleID}, &out); err != nil {
		return nil, err
	}
	return out.Permissions, nil
}

func (r *RoleRepositoryImpl) FindRoleModules(ctx context.Context, roleID models.RoleID) ([]models.Module, error) {
	var out struct {
		Modules []models.Module `json:"roleModules"`
	}
	if err := r.client.Do(ctx, queryRoleModules, map[string]any{"roleId": roleID}, &out); err != nil {
		return nil, err
	}
	return out.Modules, nil
}

func (r *RoleRepositoryImpl) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var out struct {
		Permissions []models.Permission `json:"permissions"`
	}
	if err := r.client.Do(ctx, queryPermissions, nil, &out); err != nil {
		return nil, err
	}
	return out.Permissions, nil
}

func (r *RoleRepositoryImpl) ListPermissionsByCategory(ctx context.Context, category string) ([]models.Permission, error) {
	var out struct {
		Permissions []models.Permission `json:"permissionsByCategory"`
	}
	if err := r.client.Do(ctx, queryPermissionsByCategory, map[string]any{"category": category}, &out); err != nil {
		return nil, err
	}
	return out.Permissions, nil
}

func (r *RoleRepositoryImpl) ListModules(ctx context.Context) ([]models.Module, error) {
	return ListModulePages(ctx, r.client, r.pageSize)
}

// ListModulePages fetches the full module list page by page.
func ListModulePages(ctx context.Context, client graphql.Doer, pageSize int) ([]models.Module, error) {
	return graphql.Paginate(ctx, pageSize, func(ctx context.Context, skip, take int) ([]models.Module, error) {
		var out struct {
			Modules []models.Module `json:"modules"`
		}
		vars := map[string]any{"skip": skip, "take": take}
		if err := client.Do(ctx, queryModules, vars, &out); err != nil {
			return nil, err
		}
		return out.Modules, nil
	}, func(m models.Module) string { return string(m.ID) })
}

func (r *RoleRepositoryImpl) FindModuleByPath(ctx context.Context, path string) (*models.Module, error) {
	var out struct {
		Module *models.Module `json:"moduleByPath"`
	}
	if err := r.client.Do(ctx, queryModuleByPath, map[string]any{"path": path}, &out); err != nil {
		return nil, err
	}
	return out.Module, nil
}

func (r *RoleRepositoryImpl) CreateRole(ctx context.Context, input RoleInput) (*models.Role, error) {
	var out struct {
		Role *models.Role `json:"createRole"`
	}
	if err := r.client.Do(ctx, mutationCreateRole, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	return out.Role, nil
}

func (r *RoleRepositoryImpl) UpdateRole(ctx context.Context, id models.RoleID, input RoleInput) (*models.Role, error) {
	var out struct {
		Role *models.Role `json:"updateRole"`
	}
	if err := r.client.Do(ctx, mutationUpdateRole, map[string]any{"id": id, "input": input}, &out); err != nil {
		return nil, err
	}
	return out.Role, nil
}

func (r *RoleRepositoryImpl) DeleteRole(ctx context.Context, id models.RoleID) error {
	return r.client.Do(ctx, mutationDeleteRole, map[string]any{"id": id}, nil)
}

func (r *RoleRepositoryImpl) AssignRoleToUser(ctx context.Context, userID string, roleID models.RoleID) error {
	input := UserRoleInput{UserID: userID, RoleID: roleID}
	return r.client.Do(ctx, mutationAssignRoleToUser, map[string]any{"input": input}, nil)
}

func (r *RoleRepositoryImpl) RemoveRoleFromUser(ctx context.Context, userID string, roleID models.RoleID) error {
	input := UserRoleInput{UserID: userID, RoleID: roleID}
	return r.client.Do(ctx, mutationRemoveRoleFromUser, map[string]any{"input": input}, nil)
}

func (r *RoleRepositoryImpl) CreatePermission(ctx context.Context, input PermissionInput) (*models.Permission, error) {
	var out struct {
		Permission *models.Permission `json:"createPermission"`
	}
	if err := r.client.Do(ctx, mutationCreatePermission, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	return out.Permission, nil
}

func (r *RoleRepositoryImpl) UpdatePermission(ctx context.Context, id models.PermissionID, input PermissionInput) (*models.Permission, error) {
	var out struct {
		Permission *models.Permission `json:"updatePermission"`
	}
	if err := r.client.Do(ctx, mutationUpdatePermission, map[string]any{"id": id, "input": input}, &out); err != nil {
		return nil, err
	}
	return out.Permission, nil
}

func (r *RoleRepositoryImpl) DeletePermission(ctx context.Context, id models.PermissionID) error {
	return r.client.Do(ctx, mutationDeletePermission, map[string]any{"id": id}, nil)
}

func (r *RoleRepositoryImpl) AssignPermissionToRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error {
	input := RolePermissionInput{RoleID: roleID, PermissionID: permissionID}
	return r.client.Do(ctx, mutationAssignPermissionToRole, map[string]any{"input": input}, nil)
}

func (r *RoleRepositoryImpl) RemovePermissionFromRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error {
	input := RolePermissionInput{RoleID: roleID, PermissionID: permissionID}
	return r.client.Do(ctx, mutationRemovePermissionFromRole, map[string]any{"input": input}, nil)
}
