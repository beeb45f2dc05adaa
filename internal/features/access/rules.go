package access

import "go-chms/internal/common/models"

// Rule is a render-time visibility check. All set parts must pass.
type Rule struct {
	Check       func(Capabilities) bool `json:"-"`
	Roles       []string                `json:"roles,omitempty"`
	Action      string                  `json:"action,omitempty"`
	Entity      string                  `json:"entity,omitempty"`
	Permissions []models.PermissionID   `json:"permissions,omitempty"`
	Modules     []models.ModuleID       `json:"modules,omitempty"`
	RequireAll  bool                    `json:"requireAll"`
}

func Visible(caps Capabilities, r Rule) bool {
	if r.Check != nil && !r.Check(caps) {
		return false
	}
	if len(r.Roles) > 0 && !models.ContainsAny(caps.Roles, r.Roles...) {
		return false
	}
	if r.Action != "" && !caps.Actions.Can(r.Action, r.Entity) {
		return false
	}
	return caps.CanShow(r.Permissions, r.Modules, r.RequireAll)
}

// Render returns content when r passes, else the fallback (zero value when none is given).
func Render[T any](caps Capabilities, r Rule, content T, fallback ...T) T {
	if Visible(caps, r) {
		return content
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	var zero T
	return zero
}

func VisibilityWrapper(perms []models.PermissionID, modules []models.ModuleID, requireAll bool) Rule {
	return Rule{Permissions: perms, Modules: modules, RequireAll: requireAll}
}

func ActionButton(perms []models.PermissionID, requireAll bool) Rule {
	return Rule{Permissions: perms, RequireAll: requireAll}
}

// ActionButtonFor looks the (action, entity) pair up in the action map.
func ActionButtonFor(action, entity string) Rule {
	return Rule{Action: action, Entity: entity}
}

func ConditionalSection(perms []models.PermissionID, modules []models.ModuleID, requireAll bool) Rule {
	return Rule{Permissions: perms, Modules: modules, RequireAll: requireAll}
}

func DashboardWidget(perms []models.PermissionID, modules []models.ModuleID, requireAll bool) Rule {
	return Rule{Permissions: perms, Modules: modules, RequireAll: requireAll}
}

func AdminOnly() Rule {
	return Rule{Check: Capabilities.HasAdminFeatures}
}

func FinanceOnly() Rule {
	return Rule{Check: Capabilities.HasFinanceFeatures}
}

func PastoralOnly() Rule {
	return Rule{Check: Capabilities.HasPastoralFeatures}
}

// NamedRule resolves the wrapper names accepted by the HTTP check endpoint.
func NamedRule(name string, perms []models.PermissionID, modules []models.ModuleID, requireAll bool, action, entity string) (Rule, bool) {
	switch name {
	case "visibility", "":
		return VisibilityWrapper(perms, modules, requireAll), true
	case "action-button":
		if action != "" {
			return ActionButtonFor(action, entity), true
		}
		return ActionButton(perms, requireAll), true
	case "section":
		return ConditionalSection(perms, modules, requireAll), true
	case "widget":
		return DashboardWidget(perms, modules, requireAll), true
	case "admin-only":
		return AdminOnly(), true
	case "finance-only":
		return FinanceOnly(), true
	case "pastoral-only":
		return PastoralOnly(), true
	default:
		return Rule{}, false
	}
}
