package module

import "go-chms/internal/common/models"

type moduleSeed struct {
	id       models.ModuleID
	name     string
	icon     string
	category models.ModuleCategory
	deps     []models.ModuleID
}

var defaultSeeds = []moduleSeed{
	{"dashboard", "Dashboard", "layout-dashboard", models.CategoryShared, nil},
	{"profile", "Profile", "user", models.CategoryShared, nil},
	{"notifications", "Notifications", "bell", models.CategoryShared, nil},

	{"admin", "Admin", "shield", models.CategoryAdmin, nil},
	{"god-mode", "God Mode", "zap", models.CategoryAdmin, []models.ModuleID{"admin"}},
	{"super-admin", "Super Admin", "shield-check", models.CategoryAdmin, []models.ModuleID{"admin"}},
	{"user-management", "User Management", "users-cog", models.CategoryAdmin, []models.ModuleID{"admin"}},
	{"audits", "Audit Logs", "file-search", models.CategoryAdmin, []models.ModuleID{"admin"}},
	{"roles", "Roles & Permissions", "key", models.CategoryAdmin, []models.ModuleID{"admin"}},
	{"module-settings", "Module Settings", "sliders", models.CategoryAdmin, []models.ModuleID{"admin"}},

	{"members", "Members", "users", models.CategoryCore, nil},
	{"attendance", "Attendance", "clipboard-check", models.CategoryCore, []models.ModuleID{"members"}},
	{"small-groups", "Small Groups", "users-round", models.CategoryCore, []models.ModuleID{"members"}},

	{"finances", "Finances", "wallet", models.CategoryCore, nil},
	{"contributions", "Contributions", "hand-coins", models.CategoryCore, []models.ModuleID{"finances"}},
	{"pledges", "Pledges", "handshake", models.CategoryCore, []models.ModuleID{"finances"}},
	{"budgets", "Budgets", "piggy-bank", models.CategoryCore, []models.ModuleID{"finances"}},
	{"subscriptions", "Subscriptions", "credit-card", models.CategoryCore, nil},

	{"events", "Events", "calendar-days", models.CategoryCore, nil},
	{"calendar", "Calendar", "calendar", models.CategoryCore, []models.ModuleID{"events"}},
	{"workflows", "Workflows", "workflow", models.CategoryCore, nil},

	{"communication", "Communication", "message-square", models.CategoryCore, nil},
	{"broadcasts", "Broadcasts", "radio", models.CategoryCore, []models.ModuleID{"communication"}},
	{"prayer-requests", "Prayer Requests", "heart-handshake", models.CategoryCore, nil},
	{"pastoral-care", "Pastoral Care", "heart", models.CategoryCore, []models.ModuleID{"members"}},

	{"sacraments", "Sacraments", "church", models.CategoryCore, []models.ModuleID{"members"}},
	{"marriages", "Marriages", "gem", models.CategoryCore, []models.ModuleID{"sacraments"}},
	{"burials", "Burials", "flower", models.CategoryCore, []models.ModuleID{"sacraments"}},
	{"certificates", "Certificates", "award", models.CategoryCore, []models.ModuleID{"sacraments"}},

	{"branches", "Branches", "building", models.CategoryCore, nil},
	{"ministries", "Ministries", "network", models.CategoryCore, nil},

	{"reports", "Reports", "file-bar-chart", models.CategoryCore, nil},
	{"analytics", "Analytics", "line-chart", models.CategoryCore, nil},

	{"content", "Content", "file-text", models.CategoryCore, nil},
	{"sermons", "Sermons", "mic", models.CategoryCore, []models.ModuleID{"content"}},
	{"integrations", "Integrations", "plug", models.CategoryCore, nil},

	{"assets", "Assets", "package", models.CategoryCore, nil},
	{"settings", "Settings", "settings", models.CategoryCore, nil},
}

// DefaultModules is the built-in module set used when neither the server
// nor the durable mirror can provide one.
func DefaultModules() []models.Module {
	out := make([]models.Module, 0, len(defaultSeeds))
	for _, s := range defaultSeeds {
		out = append(out, models.Module{
			ID:           s.id,
			Name:         s.name,
			Path:         "/" + string(s.id),
			Icon:         s.icon,
			Category:     s.category,
			Enabled:      true,
			Version:      "1.0.0",
			Dependencies: append([]models.ModuleID(nil), s.deps...),
			Features:     []string{},
			Permissions:  []models.PermissionID{},
		})
	}
	return out
}
