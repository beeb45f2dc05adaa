package access

import (
	"context"
	"errors"
	"testing"

	"go-chms/internal/common/models"
	"go-chms/internal/features/auth"
	"go-chms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticModules []models.Module

func (s staticModules) Modules() []models.Module { return s }

type staticStatus auth.Status

func (s staticStatus) Status() auth.Status { return auth.Status(s) }

type failingSessions struct {
	err   error
	panic bool
}

func (f failingSessions) Load(context.Context) (*auth.Session, error) {
	if f.panic {
		panic("store exploded")
	}
	return nil, f.err
}

var testModules = staticModules{
	{ID: "members", Name: "Members", Path: "/members", Enabled: true, Category: models.CategoryCore},
	{ID: "finances", Name: "Finances", Path: "/finances", Enabled: false, Category: models.CategoryCore},
	{ID: "settings", Name: "Settings", Path: "/settings", Enabled: true, Category: models.CategoryAdmin},
}

func newTestGuard(t *testing.T, user *models.User, modules ModuleSource) *Guard {
	t.Helper()
	sessions := auth.NewSessionStore(storage.NewMemoryStore())
	if user != nil {
		require.NoError(t, sessions.Save(context.Background(), "token", user))
	}
	return newGuard(sessions, modules, staticStatus(auth.StatusAuthenticated), false, zap.NewNop())
}

func TestGuardEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		path    string
		req     Requirement
		state   State
		reason  Reason
		message string
	}{
		{
			name:  "no requirements",
			user:  &models.User{ID: "u1", Roles: []string{"MEMBER"}},
			path:  "/members",
			state: StateAuthorized,
		},
		{
			name:  "role granted",
			user:  &models.User{ID: "u1", Roles: []string{"MEMBER", "ADMIN"}},
			path:  "/members",
			req:   Requirement{Roles: []string{"ADMIN"}},
			state: StateAuthorized,
		},
		{
			name:    "GOD_MODE does not satisfy ADMIN",
			user:    &models.User{ID: "u1", Roles: []string{"GOD_MODE"}},
			path:    "/members",
			req:     Requirement{Roles: []string{"ADMIN"}},
			state:   StateDenied,
			reason:  ReasonMissingRole,
			message: "Access denied. Required roles: ADMIN",
		},
		{
			name:    "ADMIN does not satisfy GOD_MODE or SYSTEM_ADMIN",
			user:    &models.User{ID: "u1", Roles: []string{"ADMIN"}},
			path:    "/members",
			req:     Requirement{Roles: []string{"GOD_MODE", "SYSTEM_ADMIN"}},
			state:   StateDenied,
			reason:  ReasonMissingRole,
			message: "Access denied. Required roles: GOD_MODE, SYSTEM_ADMIN",
		},
		{
			name:  "SYSTEM_ADMIN satisfies GOD_MODE or SYSTEM_ADMIN",
			user:  &models.User{ID: "u1", Roles: []string{"SYSTEM_ADMIN"}},
			path:  "/members",
			req:   Requirement{Roles: []string{"GOD_MODE", "SYSTEM_ADMIN"}},
			state: StateAuthorized,
		},
		{
			name:  "roles taken from user branches",
			user:  &models.User{ID: "u1", UserBranches: []models.UserBranch{{Role: &models.RoleRef{Name: "BRANCH_ADMIN"}}}},
			path:  "/members",
			req:   Requirement{Roles: []string{"SYSTEM_ADMIN", "BRANCH_ADMIN"}},
			state: StateAuthorized,
		},
		{
			name:  "any permission",
			user:  &models.User{ID: "u1", Permissions: []models.PermissionID{"members:read"}},
			path:  "/members",
			req:   Requirement{Permissions: []models.PermissionID{"members:read", "members:write"}, Mode: ModeAny},
			state: StateAuthorized,
		},
		{
			name:    "all permissions",
			user:    &models.User{ID: "u1", Permissions: []models.PermissionID{"members:read"}},
			path:    "/members",
			req:     Requirement{Permissions: []models.PermissionID{"members:read", "members:write"}, Mode: ModeAll},
			state:   StateDenied,
			reason:  ReasonMissingPermission,
			message: "Access denied. Required permissions: members:read, members:write",
		},
		{
			name:    "disabled module",
			user:    &models.User{ID: "u1", Roles: []string{"ADMIN"}},
			path:    "/finances",
			state:   StateDenied,
			reason:  ReasonModuleDisabled,
			message: "The Finances module is disabled.",
		},
		{
			name:    "unknown route",
			user:    &models.User{ID: "u1", Roles: []string{"ADMIN"}},
			path:    "/unknown",
			state:   StateDenied,
			reason:  ReasonModuleDisabled,
			message: "No enabled module serves /unknown.",
		},
		{
			name:  "empty path skips module check",
			user:  &models.User{ID: "u1", Roles: []string{"ADMIN"}},
			path:  "",
			state: StateAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGuard(t, tt.user, testModules)
			d := g.Evaluate(context.Background(), tt.path, tt.req)
			assert.Equal(t, tt.state, d.State)
			assert.Equal(t, tt.reason, d.Reason)
			if tt.message != "" {
				assert.Equal(t, tt.message, d.Message)
			}
		})
	}
}

func TestGuardSkipsModuleCheckWhileRegistryEmpty(t *testing.T) {
	g := newTestGuard(t, &models.User{ID: "u1", Roles: []string{"MEMBER"}}, staticModules{})
	d := g.Evaluate(context.Background(), "/anything", Requirement{})
	assert.True(t, d.Allowed())
}

func TestGuardMissingSession(t *testing.T) {
	g := newTestGuard(t, nil, testModules)
	d := g.Evaluate(context.Background(), "/members", Requirement{})
	assert.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonSessionNotFound, d.Reason)
	assert.Empty(t, d.Redirect)

	g.redirectOnMissing = true
	d = g.Evaluate(context.Background(), "/members", Requirement{})
	assert.Equal(t, auth.LoginRoute, d.Redirect)
}

func TestGuardCorruptSession(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.KeyAuthToken, []byte("token")))
	require.NoError(t, store.Set(context.Background(), storage.KeyUserData, []byte("{not json")))

	g := newGuard(auth.NewSessionStore(store), testModules, nil, false, zap.NewNop())
	d := g.Evaluate(context.Background(), "/members", Requirement{})
	assert.Equal(t, ReasonSessionNotFound, d.Reason)
}

func TestGuardLoadingWhileAuthenticating(t *testing.T) {
	sessions := auth.NewSessionStore(storage.NewMemoryStore())
	g := newGuard(sessions, testModules, staticStatus(auth.StatusAuthenticating), false, zap.NewNop())
	d := g.Evaluate(context.Background(), "/members", Requirement{})
	assert.Equal(t, StateLoading, d.State)
	assert.False(t, d.Allowed())
}

func TestGuardErrors(t *testing.T) {
	tests := []struct {
		name     string
		sessions SessionLoader
	}{
		{"store failure", failingSessions{err: errors.New("redis down")}},
		{"panic", failingSessions{panic: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGuard(tt.sessions, testModules, nil, false, zap.NewNop())
			d := g.Evaluate(context.Background(), "/members", Requirement{})
			assert.Equal(t, StateDenied, d.State)
			assert.Equal(t, ReasonError, d.Reason)
			assert.Equal(t, msgCheckFailed, d.Message)
		})
	}
}
