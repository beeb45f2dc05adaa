package rbac

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-chms/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// rolesGate holds ListRoles after it has read the roles until release is closed.
type rolesGate struct {
	entered chan struct{}
	release chan struct{}
}

type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	gate  *rolesGate

	roles       []models.Role
	permissions []models.Permission
	modules     []models.Module
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		calls: map[string]int{},
		fail:  map[string]error{},
		roles: []models.Role{
			{ID: "r1", Name: models.RoleSuperAdmin},
			{ID: "r2", Name: models.RoleMember},
		},
		permissions: []models.Permission{
			{ID: "members:read", Action: "read", Subject: "members", Category: "members"},
			{ID: "finances:read", Action: "read", Subject: "finances", Category: "finance"},
		},
		modules: []models.Module{
			{ID: "members", Path: "/members", Category: models.CategoryCore, Enabled: true},
		},
	}
}

func (f *fakeRepo) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) setFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[name] = err
}

func (f *fakeRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	if err := f.hit("ListRoles"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	roles, gate := f.roles, f.gate
	f.mu.Unlock()

	if gate != nil {
		close(gate.entered)
		<-gate.release
	}
	return roles, nil
}

func (f *fakeRepo) FindRole(ctx context.Context, id models.RoleID) (*models.Role, error) {
	if err := f.hit("FindRole"); err != nil {
		return nil, err
	}
	for _, r := range f.roles {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindRolePermissions(ctx context.Context, roleID models.RoleID) ([]models.Permission, error) {
	if err := f.hit("FindRolePermissions"); err != nil {
		return nil, err
	}
	return f.permissions[:1], nil
}

func (f *fakeRepo) FindRoleModules(ctx context.Context, roleID models.RoleID) ([]models.Module, error) {
	if err := f.hit("FindRoleModules"); err != nil {
		return nil, err
	}
	return f.modules, nil
}

func (f *fakeRepo) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	if err := f.hit("ListPermissions"); err != nil {
		return nil, err
	}
	return f.permissions, nil
}

func (f *fakeRepo) ListPermissionsByCategory(ctx context.Context, category string) ([]models.Permission, error) {
	if err := f.hit("ListPermissionsByCategory"); err != nil {
		return nil, err
	}
	var out []models.Permission
	for _, p := range f.permissions {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListModules(ctx context.Context) ([]models.Module, error) {
	if err := f.hit("ListModules"); err != nil {
		return nil, err
	}
	return f.modules, nil
}

func (f *fakeRepo) FindModuleByPath(ctx context.Context, path string) (*models.Module, error) {
	if err := f.hit("FindModuleByPath"); err != nil {
		return nil, err
	}
	for _, m := range f.modules {
		if m.Path == path {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateRole(ctx context.Context, input RoleInput) (*models.Role, error) {
	if err := f.hit("CreateRole"); err != nil {
		return nil, err
	}
	return &models.Role{ID: "new", Name: input.Name}, nil
}

func (f *fakeRepo) UpdateRole(ctx context.Context, id models.RoleID, input RoleInput) (*models.Role, error) {
	if err := f.hit("UpdateRole"); err != nil {
		return nil, err
	}
	return &models.Role{ID: id, Name: input.Name}, nil
}

func (f *fakeRepo) DeleteRole(ctx context.Context, id models.RoleID) error {
	return f.hit("DeleteRole")
}

func (f *fakeRepo) AssignRoleToUser(ctx context.Context, userID string, roleID models.RoleID) error {
	return f.hit("AssignRoleToUser")
}

func (f *fakeRepo) RemoveRoleFromUser(ctx context.Context, userID string, roleID models.RoleID) error {
	return f.hit("RemoveRoleFromUser")
}

func (f *fakeRepo) CreatePermission(ctx context.Context, input PermissionInput) (*models.Permission, error) {
	if err := f.hit("CreatePermission"); err != nil {
		return nil, err
	}
	return &models.Permission{ID: models.PermissionID(input.Subject + ":" + input.Action)}, nil
}

func (f *fakeRepo) UpdatePermission(ctx context.Context, id models.PermissionID, input PermissionInput) (*models.Permission, error) {
	if err := f.hit("UpdatePermission"); err != nil {
		return nil, err
	}
	return &models.Permission{ID: id}, nil
}

func (f *fakeRepo) DeletePermission(ctx context.Context, id models.PermissionID) error {
	return f.hit("DeletePermission")
}

func (f *fakeRepo) AssignPermissionToRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error {
	return f.hit("AssignPermissionToRole")
}

func (f *fakeRepo) RemovePermissionFromRole(ctx context.Context, roleID models.RoleID, permissionID models.PermissionID) error {
	return f.hit("RemovePermissionFromRole")
}

func newTestService(t *testing.T) (RoleService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc, err := NewRoleService(repo, zap.NewNop())
	require.NoError(t, err)
	return svc, repo
}

func TestNewRoleServiceRequiresRepository(t *testing.T) {
	svc, err := NewRoleService(nil, zap.NewNop())
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestListReadsAreCached(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	tests := []struct {
		name  string
		call  func() error
		fetch string
	}{
		{"roles", func() error { _, err := svc.GetAllRoles(ctx); return err }, "ListRoles"},
		{"permissions", func() error { _, err := svc.GetAllPermissions(ctx); return err }, "ListPermissions"},
		{"modules", func() error { _, err := svc.GetAllModules(ctx); return err }, "ListModules"},
		{"category", func() error { _, err := svc.GetPermissionsByCategory(ctx, "finance"); return err }, "ListPermissionsByCategory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			require.NoError(t, tt.call())
			assert.Equal(t, 1, repo.count(tt.fetch))
		})
	}
}

func TestListFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	repo.setFail("ListRoles", errors.New("network down"))

	_, err := svc.GetAllRoles(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")

	repo.setFail("ListRoles", nil)
	roles, err := svc.GetAllRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
	assert.Equal(t, 2, repo.count("ListRoles"))
}

func TestGetRole(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	role, err := svc.GetRole(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, models.RoleSuperAdmin, role.Name)

	_, err = svc.GetRole(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count("FindRole"))

	missing, err := svc.GetRole(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetRoleServedFromListCache(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	_, err := svc.GetAllRoles(ctx)
	require.NoError(t, err)

	role, err := svc.GetRole(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role.Name)
	assert.Equal(t, 0, repo.count("FindRole"))
}

func TestGetModuleByPath(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	m, err := svc.GetModuleByPath(ctx, "/members")
	require.NoError(t, err)
	assert.Equal(t, models.ModuleID("members"), m.ID)

	_, _ = svc.GetModuleByPath(ctx, "/members")
	assert.Equal(t, 1, repo.count("FindModuleByPath"))

	none, err := svc.GetModuleByPath(ctx, "/unknown")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestRelationshipReadsAreNotCached(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.GetRolePermissions(ctx, "r1")
		require.NoError(t, err)
		_, err = svc.GetRoleModules(ctx, "r1")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, repo.count("FindRolePermissions"))
	assert.Equal(t, 3, repo.count("FindRoleModules"))
}

func TestClearAndRefreshCache(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	_, _ = svc.GetAllRoles(ctx)
	svc.ClearCache()
	_, _ = svc.GetAllRoles(ctx)
	assert.Equal(t, 2, repo.count("ListRoles"))

	require.NoError(t, svc.RefreshCache(ctx))
	assert.Equal(t, 3, repo.count("ListRoles"))
	assert.Equal(t, 1, repo.count("ListPermissions"))
	assert.Equal(t, 1, repo.count("ListModules"))

	// repopulated eagerly, so these are cache hits
	_, _ = svc.GetAllPermissions(ctx)
	_, _ = svc.GetAllModules(ctx)
	assert.Equal(t, 1, repo.count("ListPermissions"))
	assert.Equal(t, 1, repo.count("ListModules"))
}

func TestRefreshCacheSurfacesErrors(t *testing.T) {
	svc, repo := newTestService(t)
	repo.setFail("ListPermissions", errors.New("boom"))

	err := svc.RefreshCache(context.Background())
	assert.Error(t, err)
}

func TestMutationsInvalidateCaches(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(RoleService) error
		wantRoles int
		wantPerms int
	}{
		{"create role", func(s RoleService) error { _, err := s.CreateRole(ctx, RoleInput{Name: "USHER"}); return err }, 2, 1},
		{"update role", func(s RoleService) error { _, err := s.UpdateRole(ctx, "r1", RoleInput{Name: "X"}); return err }, 2, 1},
		{"delete role", func(s RoleService) error { return s.DeleteRole(ctx, "r2") }, 2, 1},
		{"assign role to user", func(s RoleService) error { return s.AssignRoleToUser(ctx, "u1", "r1") }, 1, 1},
		{"create permission", func(s RoleService) error {
			_, err := s.CreatePermission(ctx, PermissionInput{Action: "read", Subject: "events"})
			return err
		}, 1, 2},
		{"delete permission", func(s RoleService) error { return s.DeletePermission(ctx, "members:read") }, 2, 2},
		{"assign permission", func(s RoleService) error { return s.AssignPermissionToRole(ctx, "r1", "members:read") }, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			_, _ = svc.GetAllRoles(ctx)
			_, _ = svc.GetAllPermissions(ctx)

			require.NoError(t, tt.mutate(svc))

			_, _ = svc.GetAllRoles(ctx)
			_, _ = svc.GetAllPermissions(ctx)
			assert.Equal(t, tt.wantRoles, repo.count("ListRoles"))
			assert.Equal(t, tt.wantPerms, repo.count("ListPermissions"))
		})
	}
}

func TestFailedMutationKeepsCache(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	_, _ = svc.GetAllRoles(ctx)
	repo.setFail("DeleteRole", errors.New("forbidden"))

	assert.Error(t, svc.DeleteRole(ctx, "r1"))
	_, _ = svc.GetAllRoles(ctx)
	assert.Equal(t, 1, repo.count("ListRoles"))
}

func TestPermissionPredicates(t *testing.T) {
	svc, _ := newTestService(t)
	perms := models.NewPermissionSet("members:read", "events:read")
	mods := models.NewModuleSet("members")

	assert.True(t, svc.HasPermission(perms, "members:read"))
	assert.False(t, svc.HasPermission(perms, "finances:read"))
	assert.False(t, svc.HasPermission(nil, "members:read"))

	assert.True(t, svc.CanAccessModule(mods, "members"))
	assert.False(t, svc.CanAccessModule(mods, "finances"))

	assert.True(t, svc.HasAnyPermission(perms, "finances:read", "events:read"))
	assert.False(t, svc.HasAnyPermission(perms, "finances:read"))
	assert.False(t, svc.HasAnyPermission(perms))

	assert.True(t, svc.HasAllPermissions(perms, "members:read", "events:read"))
	assert.False(t, svc.HasAllPermissions(perms, "members:read", "finances:read"))
	assert.True(t, svc.HasAllPermissions(perms))
}

func TestInvalidationDuringFetchIsNotCached(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(svc RoleService) error
	}{
		{"clear cache", func(svc RoleService) error {
			svc.ClearCache()
			return nil
		}},
		{"role update", func(svc RoleService) error {
			_, err := svc.UpdateRole(context.Background(), "r1", RoleInput{Name: "PASTOR"})
			return err
		}},
		{"permission assignment", func(svc RoleService) error {
			return svc.AssignPermissionToRole(context.Background(), "r1", "members:read")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			gate := &rolesGate{entered: make(chan struct{}), release: make(chan struct{})}
			repo.mu.Lock()
			repo.gate = gate
			repo.mu.Unlock()

			stale := make(chan []models.Role, 1)
			go func() {
				roles, _ := svc.GetAllRoles(context.Background())
				stale <- roles
			}()
			<-gate.entered

			require.NoError(t, tt.invalidate(svc))
			fresh := []models.Role{{ID: "r1", Name: "PASTOR"}}
			repo.mu.Lock()
			repo.roles, repo.gate = fresh, nil
			repo.mu.Unlock()

			got, err := svc.GetAllRoles(context.Background())
			require.NoError(t, err)
			assert.Equal(t, fresh, got)

			close(gate.release)
			assert.Len(t, <-stale, 2)

			cached, err := svc.GetAllRoles(context.Background())
			require.NoError(t, err)
			assert.Equal(t, fresh, cached)
			assert.Equal(t, 2, repo.count("ListRoles"))
		})
	}
}
