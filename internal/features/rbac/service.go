package rbac

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-chms/internal/common/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNotInitialized is returned when the service is built without a backing repository.
var ErrNotInitialized = errors.New("rbac: role service used before initialization")

type RoleService interface {
	GetAllRoles(ctx context.Context) ([]models.Role, error)
	GetRole(ctx context.Context, id models.RoleID) (*models.Role, error)
	GetRolePermissions(ctx context.Context, roleID models.RoleID) ([]models.Permission, error)
	GetRoleModules(ctx context.Context, roleID models.RoleID) ([]models.Module, error)
	GetAllPermissions(ctx context.Context) ([]models.Permission, error)
	GetAllModules(ctx context.Context) ([]models.Module, error)
	GetPermissionsByCategory(ctx context.Context, category string) ([]models.Permission, error)
	GetModuleByPath(ctx context.Context, path string) (*models.Module, error)

	HasPermission(userPermissions models.PermissionSet, id models.PermissionID) bool
	CanAccessModule(userModules models.ModuleSet, id models.ModuleID) bool
	HasAnyPermission(userPermissions models.PermissionSet, ids ...models.PermissionID) bool
	HasAllPermissions(userPermissions models.PermissionSet, ids ...models.PermissionID) bool

	ClearCache()
	RefreshCache(ctx context.Context) error

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

// RoleServiceImpl caches entity reads until ClearCache/RefreshCache.
// Relationship reads (role permissions, role modules) always go to the server.
type RoleServiceImpl struct {
	repo   RoleRepository
	logger *zap.Logger
	flight singleflight.Group

	mu sync.RWMutex
	// gen is bumped on every invalidation so fetches started before a clear
	// do not repopulate the cache with stale data.
	gen uint64

	roles       []models.Role
	rolesLoaded bool
	roleByID    map[models.RoleID]models.Role

	permissions           []models.Permission
	permissionsLoaded     bool
	permissionsByCategory map[string][]models.Permission

	modules       []models.Module
	modulesLoaded bool
	moduleByPath  map[string]models.Module
}

func NewRoleService(repo RoleRepository, logger *zap.Logger) (RoleService, error) {
	if repo == nil {
		return nil, ErrNotInitialized
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RoleServiceImpl{repo: repo, logger: logger}
	s.resetLocked()
	return s, nil
}

func (s *RoleServiceImpl) resetLocked() {
	s.gen++
	s.resetRolesLocked()
	s.resetPermissionsLocked()
	s.roleByID = make(map[models.RoleID]models.Role)
	s.modules, s.modulesLoaded = nil, false
	s.moduleByPath = make(map[string]models.Module)
}

func (s *RoleServiceImpl) resetRolesLocked() {
	s.roles, s.rolesLoaded = nil, false
	s.roleByID = make(map[models.RoleID]models.Role)
}

func (s *RoleServiceImpl) resetPermissionsLocked() {
	s.permissions, s.permissionsLoaded = nil, false
	s.permissionsByCategory = make(map[string][]models.Permission)
}

// flightKey scopes a fetch to the cache generation, so a caller arriving
// after an invalidation never joins a fetch that started before it.
func flightKey(name string, gen uint64) string {
	return fmt.Sprintf("%s@%d", name, gen)
}

func (s *RoleServiceImpl) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *RoleServiceImpl) GetAllRoles(ctx context.Context) ([]models.Role, error) {
	s.mu.RLock()
	if s.rolesLoaded {
		roles := append([]models.Role(nil), s.roles...)
		s.mu.RUnlock()
		return roles, nil
	}
	s.mu.RUnlock()

	gen := s.generation()
	v, err, _ := s.flight.Do(flightKey("roles", gen), func() (any, error) {
		return s.repo.ListRoles(ctx)
	})
	if err != nil {
		s.logger.Error("Failed to fetch roles", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	roles := v.([]models.Role)

	s.mu.Lock()
	if s.gen == gen {
		s.roles = append([]models.Role(nil), roles...)
		s.rolesLoaded = true
		for _, r := range roles {
			s.roleByID[r.ID] = r
		}
	}
	s.mu.Unlock()

	return append([]models.Role(nil), roles...), nil
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id models.RoleID) (*models.Role, error) {
	s.mu.RLock()
	if r, ok := s.roleByID[id]; ok {
		s.mu.RUnlock()
		return &r, nil
	}
	s.mu.RUnlock()

	gen := s.generation()
	v, err, _ := s.flight.Do(flightKey("role:"+string(id), gen), func() (any, error) {
		return s.repo.FindRole(ctx, id)
	})
	if err != nil {
		s.logger.Error("Failed to fetch role", zap.String("role_id", string(id)), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch role %s: %w", id, err)
	}
	role := v.(*models.Role)
	if role == nil {
		return nil, nil
	}

	s.mu.Lock()
	if s.gen == gen {
		s.roleByID[role.ID] = *role
	}
	s.mu.Unlock()

	out := *role
	return &out, nil
}

func (s *RoleServiceImpl) GetRolePermissions(ctx context.Context, roleID models.RoleID) ([]models.Permission, error) {
	perms, err := s.repo.FindRolePermissions(ctx, roleID)
	if err != nil {
		s.logger.Error("Failed to fetch role permissions", zap.String("role_id", string(roleID)), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch permissions for role %s: %w", roleID, err)
	}
	return perms, nil
}

func (s *RoleServiceImpl) GetRoleModules(ctx context.Context, roleID models.RoleID) ([]models.Module, error) {
	modules, err := s.repo.FindRoleModules(ctx, roleID)
	if err != nil {
		s.logger.Error("Failed to fetch role modules", zap.String("role_id", string(roleID)), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch modules for role %s: %w", roleID, err)
	}
	return modules, nil
}

func (s *RoleServiceImpl) GetAllPermissions(ctx context.Context) ([]models.Permission, error) {
	s.mu.RLock()
	if s.permissionsLoaded {
		perms := append([]models.Permission(nil), s.permissions...)
		s.mu.RUnlock()
		return perms, nil
	}
	s.mu.RUnlock()

	gen := s.generation()
	v, err, _ := s.flight.Do(flightKey("permissions", gen), func() (any, error) {
		return s.repo.ListPermissions(ctx)
	})
	if err != nil {
		s.logger.Error("Failed to fetch permissions", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	perms := v.([]models.Permission)

	s.mu.Lock()
	if s.gen == gen {
		s.permissions = append([]models.Permission(nil), perms...)
		s.permissionsLoaded = true
	}
	s.mu.Unlock()

	return append([]models.Permission(nil), perms...), nil
}

func (s *RoleServiceImpl) GetPermissionsByCategory(ctx context.Context, category string) ([]models.Permission, error) {
	s.mu.RLock()
	if perms, ok := s.permissionsByCategory[category]; ok {
		s.mu.RUnlock()
		return append([]models.Permission(nil), perms...), nil
	}
	s.mu.RUnlock()

	gen := s.generation()
	v, err, _ := s.flight.Do(flightKey("permissions:"+category, gen), func() (any, error) {
		return s.repo.ListPermissionsByCategory(ctx, category)
	})
	if err != nil {
		s.logger.Error("Failed to fetch permissions by category", zap.String("category", category), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch %s permissions: %w", category, err)
	}
	perms := v.([]models.Permission)

	s.mu.Lock()
	if s.gen == gen {
		s.permissionsByCategory[category] = append([]models.Permission(nil), perms...)
	}
	s.mu.Unlock()

	return append([]models.Permission(nil), perms...), nil
}

func (s *RoleServiceImpl) GetAllModules(ctx context.Context) ([]models.Module, error) {
	s.mu.RLock()
	if s.modulesLoaded {
		modules := models.CloneModules(s.modules)
		s.mu.RUnlock()
		return modules, nil
	}
	s.mu.RUnlock()

	gen := s.generation()
	v, err, _ := s.flight.Do(flightKey("modules", gen), func() (any, error) {
		return s.repo.ListModules(ctx)
	})
	if err != nil {
		s.logger.Error("Failed to fetch modules", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch modules: %w", err)
	}
	modules := v.([]models.Module)

	s.mu.Lock()
	if s.gen == gen {
		s.modules = models.CloneModules(modules)
		s.modulesLoaded = true
		for _, m := range modules {
			s.moduleByPath[m.Path] = m.Clone()
		}
	}
	s.mu.Unlock()

	return models.CloneModules(modules), nil
}

func (s *RoleServiceImpl) GetModuleByPath(ctx context.Context, path string) (*models.Module, error) {
	s.mu.RLock()
	if m, ok := s.moduleByPath[path]; ok {
		s.mu.RUnlock()
		out := m.Clone()
		return &out, nil
	}
	s.mu.RUnlock()

	gen := s.generation()
	v, err, _ := s.flight.Do(flightKey("module:"+path, gen), func() (any, error) {
		return s.repo.FindModuleByPath(ctx, path)
	})
	if err != nil {
		s.logger.Error("Failed to fetch module by path", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch module for %s: %w", path, err)
	}
	m := v.(*models.Module)
	if m == nil {
		return nil, nil
	}

	s.mu.Lock()
	if s.gen == gen {
		s.moduleByPath[path] = m.Clone()
	}
	s.mu.Unlock()

	out := m.Clone()
	return &out, nil
}

func (s *RoleServiceImpl) HasPermission(userPermissions models.PermissionSet, id models.PermissionID) bool {
	return userPermissions != nil && userPermissions.Contains(id)
}

func (s *RoleServiceImpl) CanAccessModule(userModules models.ModuleSet, id models.ModuleID) bool {
	return userModules != nil && userModules.Contains(id)
}

func (s *RoleServiceImpl) HasAnyPermission(userPermissions models.PermissionSet, ids ...models.PermissionID) bool {
	if userPermissions == nil {
		return false
	}
	return models.ContainsAny(userPermissions, ids...)
}

func (s *RoleServiceImpl) HasAllPermissions(userPermissions models.PermissionSet, ids ...models.PermissionID) bool {
	if userPermissions == nil {
		return len(ids) == 0
	}
	return models.ContainsAll(userPermissions, ids...)
}

func (s *RoleServiceImpl) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// RefreshCache clears every cache and repopulates roles, permissions and
// modules concurrently.
func (s *RoleServiceImpl) RefreshCache(ctx context.Context) error {
	s.ClearCache()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.GetAllRoles(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.GetAllPermissions(gctx)
		return err
	})
	g.Go(func() error {
		_, err := s.GetAllModules(gctx)
		return err
	})
	return g.Wait()
}

func (s *RoleServiceImpl) invalidateRoles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.resetRolesLocked()
}

func (s *RoleServiceImpl) invalidatePermissions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.resetPermissionsLocked()
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, input RoleInput) (*models.Role, error) {
	if input.Name == "" {
		return nil, errors.New("role name is required")
	}
	role, err := s.repo.CreateRole(ctx, input)
	if err != nil {
		s.logger.Error("Failed to create role", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}
	s.invalidateRoles()
	return role, nil
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id models.RoleID, input RoleInput) (*models.Role, error) {
	role, err := s.repo.UpdateRole(ctx, id, input)
	if err != nil {
		s.logger.Error("Failed to update role", zap.String("role_id", string(id)), zap.Error(err))
		return nil, err
	}
	s.invalidateRoles()
	return role, nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id models.RoleID) error {
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		s.logger.Error("Failed to delete role", zap.String("role_id", string(id)), zap.Error(err))
		return err
	}
	s.invalidateRoles()
	return nil
}

// AssignRoleToUser and RemoveRoleFromUser touch user records only, which are never cached here.
func (s *RoleServiceImpl) AssignRoleToUser(ctx context.Context, userID string, roleID models.RoleID) error {
	if err := s.repo.AssignRoleToUser(ctx, userID, roleID); err != nil {
		s.logger.Error("Failed to assign role", zap.String("user_id", userID), zap.String("role_id", string(roleID)), zap.Error(err))
		return err
	}
	return nil
}

func (s *RoleServiceImpl) RemoveRoleFromUser(ctx context.Context, userID string, roleID models.RoleID) error {
	if err := s.repo.RemoveRoleFromUser(ctx, userID, roleID); err != nil {
		s.logger.Error("Failed to remove role", zap.String("user_id", userID), zap.String("role_id", string(roleID)), zap.Error(err))
		return err
	}
	return nil
}

func (s *RoleServiceImpl) CreatePermission(ctx context.Context, input PermissionInput) (*models.Permission, error) {
	if input.Action == "" || input.Subject == "" {
		return nil, errors.New("permission action and subject are required")
	}
	perm, err := s.repo.CreatePermission(ctx, input)
	if err != nil {
		s.logger.Error("Failed to create permission", zap.String("subject", input.Subject), zap.Error(err))
		return nil, err
	}
	s.invalidatePermissions()
	return perm, nil
}

func (s *RoleServiceImpl) UpdatePermission(ctx context.Context, id models.PermissionID, input PermissionInput) (*models.Permission, error) {
	perm, err := s.repo.UpdatePermission(ctx, id, input)
	if err != nil {
		s.logger.Error("Failed to update permission", zap.String("permission_id", string(id)), zap.Error(err))
		return nil, err
	}
	s.invalidatePermissions()
	// cached roles embed their permissions
	s.invalidateRoles()
	return perm, nil
}

func (s *RoleServiceImpl) DeletePermission(ctx context.Context, id models.PermissionID) error {
	if err := s.repo.DeletePermission(ctx, id); err != nil {
		s.logger.Error("Failed to delete permission", zap.String("permission_id", string(id)), zap.Error(err))
		return err
	}
	s.invalidatePermissions()
	s.invalidateRoles()
	return nil
}

func (s *RoleServiceImpl) AssignPermissionToRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error {
	if err := s.repo.AssignPermissionToRole(ctx, roleID, permissionID); err != nil {
		s.logger.Error("Failed to assign permission", zap.String("role_id", string(roleID)), zap.Error(err))
		return err
	}
	s.invalidateRoles()
	return nil
}

func (s *RoleServiceImpl) RemovePermissionFromRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error {
	if err := s.repo.RemovePermissionFromRole(ctx, roleID, permissionID); err != nil {
		s.logger.Error("Failed to remove permission", zap.String("role_id", string(roleID)), zap.Error(err))
		return err
	}
	s.invalidateRoles()
	return nil
}
