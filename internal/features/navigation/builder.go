package navigation

import (
	"go-chms/internal/common/models"
	"go-chms/pkg/utils"
)

const administrationTitle = "Administration"

// coreBuckets is the fixed order of the Core sections in the sidebar.
var coreBuckets = []string{
	"Members",
	"Finances",
	"Events & Activities",
	"Communication",
	"Sacraments & Registries",
	"Organization",
	"Reporting & Analytics",
	"Content & Integration",
	"Assets & Settings",
}

// bucketByModule maps a Core module id to its sidebar section. Modules not
// listed here are left out of the menu.
var bucketByModule = map[models.ModuleID]string{
	"members":      "Members",
	"attendance":   "Members",
	"small-groups": "Members",

	"finances":      "Finances",
	"contributions": "Finances",
	"pledges":       "Finances",
	"budgets":       "Finances",
	"subscriptions": "Finances",

	"events":    "Events & Activities",
	"calendar":  "Events & Activities",
	"workflows": "Events & Activities",

	"communication":   "Communication",
	"broadcasts":      "Communication",
	"prayer-requests": "Communication",
	"pastoral-care":   "Communication",

	"sacraments":   "Sacraments & Registries",
	"marriages":    "Sacraments & Registries",
	"burials":      "Sacraments & Registries",
	"certificates": "Sacraments & Registries",

	"branches":   "Organization",
	"ministries": "Organization",

	"reports":   "Reporting & Analytics",
	"analytics": "Reporting & Analytics",

	"content":      "Content & Integration",
	"sermons":      "Content & Integration",
	"integrations": "Content & Integration",

	"assets":   "Assets & Settings",
	"settings": "Assets & Settings",
}

// branchAdminDenylist is hidden from branch administrators whatever its enabled state.
var branchAdminDenylist = models.NewModuleSet("admin", "god-mode", "super-admin", "user-management", "audits")

// BuildSidebarNavigation groups enabled, non-shared modules into the sidebar:
// Administration first, then the Core sections in their fixed order. Items
// keep the order of the input list and empty groups are dropped.
func BuildSidebarNavigation(modules []models.Module) []NavGroup {
	var admin []NavItem
	core := make(map[string][]NavItem, len(coreBuckets))

	for _, m := range modules {
		if !m.Enabled || m.Category == models.CategoryShared {
			continue
		}
		switch m.Category {
		case models.CategoryAdmin:
			admin = append(admin, itemFor(m))
		case models.CategoryCore:
			if bucket, ok := bucketByModule[m.ID]; ok {
				core[bucket] = append(core[bucket], itemFor(m))
			}
		}
	}

	var groups []NavGroup
	if len(admin) > 0 {
		groups = append(groups, newGroup(administrationTitle, admin))
	}
	for _, title := range coreBuckets {
		if items := core[title]; len(items) > 0 {
			groups = append(groups, newGroup(title, items))
		}
	}
	return groups
}

// BuildBranchAdminNavigation is BuildSidebarNavigation without the
// organisation-wide administrative modules.
func BuildBranchAdminNavigation(modules []models.Module) []NavGroup {
	filtered := make([]models.Module, 0, len(modules))
	for _, m := range modules {
		if branchAdminDenylist.Contains(m.ID) {
			continue
		}
		filtered = append(filtered, m)
	}
	return BuildSidebarNavigation(filtered)
}

func newGroup(title string, items []NavItem) NavGroup {
	return NavGroup{ID: utils.Slugify(title), Title: title, Items: items}
}

func itemFor(m models.Module) NavItem {
	label := m.Name
	if label == "" {
		label = string(m.ID)
	}
	return NavItem{
		ID:    string(m.ID),
		Label: label,
		Href:  m.Path,
		Icon:  m.Icon,
		Badge: m.Metadata["badge"],
	}
}

// IsRouteAccessible reports whether an enabled module is registered at
// exactly path. Sub-paths of a module are not matched.
func IsRouteAccessible(path string, modules []models.Module) bool {
	for _, m := range modules {
		if m.Enabled && m.Path == path {
			return true
		}
	}
	return false
}

// GetModuleForRoute returns the module registered at exactly path, enabled or not.
func GetModuleForRoute(path string, modules []models.Module) (models.Module, bool) {
	for _, m := range modules {
		if m.Path == path {
			return m, true
		}
	}
	return models.Module{}, false
}

// GetBreadcrumb always starts at the dashboard; admin modules get an
// Administration crumb before their own.
func GetBreadcrumb(path string, modules []models.Module) []Breadcrumb {
	crumbs := []Breadcrumb{{Label: "Dashboard", Href: "/dashboard"}}

	m, ok := GetModuleForRoute(path, modules)
	if !ok {
		return crumbs
	}
	if m.Category == models.CategoryAdmin {
		crumbs = append(crumbs, Breadcrumb{Label: administrationTitle, Href: "/admin"})
	}
	if m.Path == "/dashboard" {
		return crumbs
	}
	return append(crumbs, Breadcrumb{Label: m.Name, Href: m.Path})
}
