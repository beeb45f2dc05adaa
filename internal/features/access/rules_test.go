package access

import (
	"testing"

	"go-chms/internal/common/models"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	member := CapabilitiesFor(&models.User{
		Roles:       []string{"MEMBER"},
		Permissions: []models.PermissionID{"members:read"},
	}, visibilityModules)
	admin := CapabilitiesFor(&models.User{Roles: []string{"ADMIN"}}, visibilityModules)

	assert.Equal(t, "panel", Render(admin, AdminOnly(), "panel"))
	assert.Equal(t, "", Render(member, AdminOnly(), "panel"))
	assert.Equal(t, "upgrade", Render(member, AdminOnly(), "panel", "upgrade"))

	assert.Equal(t, "edit", Render(member, ActionButtonFor("read", "members"), "edit"))
	assert.Equal(t, "", Render(member, ActionButtonFor("delete", "members"), "edit"))
}

func TestVisibleCombinesParts(t *testing.T) {
	caps := CapabilitiesFor(&models.User{
		Roles:       []string{"FINANCE_MANAGER"},
		Permissions: []models.PermissionID{"finances:read"},
	}, visibilityModules)

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"empty rule", Rule{}, true},
		{"role", Rule{Roles: []string{"FINANCE_MANAGER"}}, true},
		{"role missing", Rule{Roles: []string{"ADMIN"}}, false},
		{"role and permission", Rule{Roles: []string{"FINANCE_MANAGER"}, Permissions: []models.PermissionID{"finances:write"}}, false},
		{"check", FinanceOnly(), true},
		{"section", ConditionalSection(nil, []models.ModuleID{"finances"}, false), true},
		{"widget requires all", DashboardWidget([]models.PermissionID{"finances:read"}, []models.ModuleID{"events"}, true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(caps, tt.rule))
		})
	}
}

func TestNamedRule(t *testing.T) {
	for _, name := range []string{"", "visibility", "action-button", "section", "widget", "admin-only", "finance-only", "pastoral-only"} {
		_, ok := NamedRule(name, nil, nil, false, "", "")
		assert.True(t, ok, name)
	}

	rule, ok := NamedRule("action-button", nil, nil, false, "read", "members")
	assert.True(t, ok)
	assert.Equal(t, "read", rule.Action)

	_, ok = NamedRule("tooltip", nil, nil, false, "", "")
	assert.False(t, ok)
}
