package auth

import (
	"strings"

	"go-chms/internal/common/models"
)

const (
	LoginRoute          = "/login"
	DefaultLandingRoute = "/dashboard"
)

// RoleAccess lists what a primary role may open. Route patterns are exact
// paths, "*" for everything, or "prefix/*" for a path and everything below it.
type RoleAccess struct {
	DefaultRoute string   `json:"defaultRoute"`
	Routes       []string `json:"routes"`
	Dashboards   []string `json:"dashboards"`
}

var commonRoutes = []string{"/dashboard", "/profile", "/notifications"}

func routes(extra ...string) []string {
	return append(append([]string(nil), commonRoutes...), extra...)
}

var roleAccessTable = map[string]RoleAccess{
	models.RoleGodMode: {
		DefaultRoute: "/god-mode",
		Routes:       []string{"*"},
		Dashboards:   []string{"*"},
	},
	models.RoleSystemAdmin: {
		DefaultRoute: "/admin",
		Routes:       []string{"*"},
		Dashboards:   []string{"*"},
	},
	models.RoleSuperAdmin: {
		DefaultRoute: "/super-admin",
		Routes:       []string{"*"},
		Dashboards:   []string{"*"},
	},
	models.RoleAdmin: {
		DefaultRoute: "/admin",
		Routes: routes("/admin/*", "/user-management/*", "/roles/*", "/module-settings/*", "/members/*",
			"/finances/*", "/events/*", "/communication/*", "/sacraments/*", "/branches/*", "/ministries/*",
			"/reports/*", "/analytics/*", "/settings/*"),
		Dashboards: []string{"admin", "branch-admin", "finance", "pastoral", "ministry", "member"},
	},
	models.RoleBranchAdmin: {
		DefaultRoute: "/dashboard",
		Routes: routes("/members/*", "/attendance/*", "/small-groups/*", "/finances/*", "/contributions/*",
			"/pledges/*", "/budgets/*", "/events/*", "/calendar/*", "/workflows/*", "/communication/*",
			"/broadcasts/*", "/prayer-requests/*", "/pastoral-care/*", "/sacraments/*", "/marriages/*",
			"/burials/*", "/certificates/*", "/ministries/*", "/reports/*", "/analytics/*", "/content/*",
			"/sermons/*", "/assets/*", "/settings/*", "/module-settings/*"),
		Dashboards: []string{"branch-admin", "finance", "pastoral", "ministry", "member"},
	},
	models.RoleSubscriptionManager: {
		DefaultRoute: "/subscriptions",
		Routes:       routes("/subscriptions/*", "/branches"),
		Dashboards:   []string{"subscription"},
	},
	models.RoleFinanceManager: {
		DefaultRoute: "/finances",
		Routes:       routes("/finances/*", "/contributions/*", "/pledges/*", "/budgets/*", "/reports/*"),
		Dashboards:   []string{"finance"},
	},
	models.RolePastoralStaff: {
		DefaultRoute: "/pastoral-care",
		Routes: routes("/members/*", "/pastoral-care/*", "/prayer-requests/*", "/sacraments/*",
			"/marriages/*", "/burials/*", "/certificates/*"),
		Dashboards: []string{"pastoral"},
	},
	models.RoleMinistryLeader: {
		DefaultRoute: "/ministries",
		Routes: routes("/ministries/*", "/events/*", "/calendar/*", "/small-groups/*", "/attendance/*",
			"/communication/*"),
		Dashboards: []string{"ministry"},
	},
	models.RoleMember: {
		DefaultRoute: "/dashboard",
		Routes:       routes("/events", "/calendar", "/prayer-requests", "/sermons", "/contributions"),
		Dashboards:   []string{"member"},
	},
}

// ConfiguredRoles lists the roles of the access table, priority roles first.
func ConfiguredRoles() []string {
	return append([]string{models.RoleGodMode, models.RoleSystemAdmin, models.RoleAdmin}, RolePriority...)
}

// AccessFor returns the table entry for role.
func AccessFor(role string) (RoleAccess, bool) {
	a, ok := roleAccessTable[role]
	return a, ok
}

// DefaultRouteFor is the landing page after login.
func DefaultRouteFor(role string) string {
	if a, ok := roleAccessTable[role]; ok && a.DefaultRoute != "" {
		return a.DefaultRoute
	}
	return DefaultLandingRoute
}

func RoleCanAccessRoute(role, route string) bool {
	a, ok := roleAccessTable[role]
	if !ok {
		return false
	}
	for _, pattern := range a.Routes {
		if matchRoute(pattern, route) {
			return true
		}
	}
	return false
}

func RoleCanAccessDashboard(role, dashboard string) bool {
	a, ok := roleAccessTable[role]
	if !ok {
		return false
	}
	for _, d := range a.Dashboards {
		if d == "*" || d == dashboard {
			return true
		}
	}
	return false
}

func matchRoute(pattern, route string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasSuffix(pattern, "/*"):
		prefix := strings.TrimSuffix(pattern, "/*")
		return route == prefix || strings.HasPrefix(route, prefix+"/")
	default:
		return pattern == route
	}
}
