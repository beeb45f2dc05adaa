package access

import (
	"testing"

	"go-chms/internal/common/models"

	"github.com/stretchr/testify/assert"
)

var visibilityModules = []models.Module{
	{ID: "members", Enabled: true, Features: []string{"member-import", "family-tree"}},
	{ID: "finances", Enabled: true, Features: []string{"giving-statements"}},
	{ID: "events", Enabled: false, Features: []string{"check-in"}},
}

func TestCapabilitiesFor(t *testing.T) {
	caps := CapabilitiesFor(&models.User{
		Roles:       []string{"MEMBER"},
		Permissions: []models.PermissionID{"members:read"},
	}, visibilityModules)

	assert.ElementsMatch(t, []models.ModuleID{"members", "finances"}, caps.Modules.ToSlice())
	assert.True(t, caps.Features.Contains("family-tree"))
	assert.False(t, caps.Features.Contains("check-in"))

	narrowed := CapabilitiesFor(&models.User{Modules: []models.ModuleID{"members", "events"}}, visibilityModules)
	assert.ElementsMatch(t, []models.ModuleID{"members"}, narrowed.Modules.ToSlice())
	assert.False(t, narrowed.Features.Contains("giving-statements"))

	anonymous := CapabilitiesFor(nil, visibilityModules)
	assert.Equal(t, 0, anonymous.Roles.Cardinality())
	assert.Equal(t, 0, anonymous.Permissions.Cardinality())
}

func TestCanShow(t *testing.T) {
	caps := CapabilitiesFor(&models.User{
		Permissions: []models.PermissionID{"members:read"},
		Modules:     []models.ModuleID{"members"},
	}, visibilityModules)

	tests := []struct {
		name       string
		perms      []models.PermissionID
		modules    []models.ModuleID
		requireAll bool
		want       bool
	}{
		{"nothing required", nil, nil, false, true},
		{"nothing required all", nil, nil, true, true},
		{"any permission", []models.PermissionID{"members:read", "finances:read"}, nil, false, true},
		{"any module", []models.PermissionID{"finances:read"}, []models.ModuleID{"members"}, false, true},
		{"neither", []models.PermissionID{"finances:read"}, []models.ModuleID{"finances"}, false, false},
		{"all held", []models.PermissionID{"members:read"}, []models.ModuleID{"members"}, true, true},
		{"all missing one", []models.PermissionID{"members:read", "finances:read"}, nil, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, caps.CanShow(tt.perms, tt.modules, tt.requireAll))
		})
	}
}

func TestIsFeatureEnabled(t *testing.T) {
	caps := CapabilitiesFor(&models.User{Roles: []string{"PASTORAL_STAFF"}}, visibilityModules)

	assert.True(t, caps.IsFeatureEnabled("family-tree", nil))
	assert.True(t, caps.IsFeatureEnabled("family-tree", []string{"PASTORAL_STAFF", "ADMIN"}))
	assert.False(t, caps.IsFeatureEnabled("family-tree", []string{"ADMIN"}))
	assert.False(t, caps.IsFeatureEnabled("check-in", nil))
}

func TestFeatureGroups(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		admin    bool
		finance  bool
		pastoral bool
	}{
		{"member", &models.User{Roles: []string{"MEMBER"}}, false, false, false},
		{"branch admin", &models.User{Roles: []string{"BRANCH_ADMIN"}}, true, true, true},
		{"finance manager", &models.User{Roles: []string{"FINANCE_MANAGER"}}, false, true, false},
		{"pastoral staff", &models.User{Roles: []string{"PASTORAL_STAFF"}}, false, false, true},
		{"finance by permission", &models.User{Roles: []string{"MEMBER"}, Permissions: []models.PermissionID{"finances:read"}}, false, true, false},
		{"pastoral by manage", &models.User{Roles: []string{"MEMBER"}, Permissions: []models.PermissionID{"pastoral-care:manage"}}, false, false, true},
		{"global wildcard", &models.User{Permissions: []models.PermissionID{"*"}}, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := CapabilitiesFor(tt.user, visibilityModules)
			assert.Equal(t, tt.admin, caps.HasAdminFeatures())
			assert.Equal(t, tt.finance, caps.HasFinanceFeatures())
			assert.Equal(t, tt.pastoral, caps.HasPastoralFeatures())
		})
	}
}

func TestBuildActionMap(t *testing.T) {
	m := BuildActionMap(models.NewPermissionSet("members:read", "Events:Manage", "bogus", ":read", "groups:"))

	assert.True(t, m.Can("read", "members"))
	assert.False(t, m.Can("write", "members"))
	assert.True(t, m.Can("delete", "events"))
	assert.True(t, m.Can("READ", "EVENTS"))
	assert.Equal(t, []string{"events", "members"}, m.Entities())

	assert.Empty(t, BuildActionMap(nil))
}
