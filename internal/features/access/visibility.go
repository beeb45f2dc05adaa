package access

import (
	"go-chms/internal/common/models"
	"go-chms/internal/features/auth"

	mapset "github.com/deckarep/golang-set/v2"
)

var (
	adminRoles    = []string{models.RoleGodMode, models.RoleSystemAdmin, models.RoleSuperAdmin, models.RoleAdmin, models.RoleBranchAdmin}
	financeRoles  = append([]string{models.RoleFinanceManager}, adminRoles...)
	pastoralRoles = append([]string{models.RolePastoralStaff}, adminRoles...)
)

// Capabilities is what the signed-in user holds, as seen by render-time checks.
type Capabilities struct {
	Roles       models.RoleSet
	Permissions models.PermissionSet
	Modules     models.ModuleSet
	Features    mapset.Set[string]
	Actions     ActionMap
}

// CapabilitiesFor derives capabilities from the user and the registry.
// Modules are the enabled ones, narrowed to the user's own module list when
// the login payload carried one. Features come from those modules.
func CapabilitiesFor(user *models.User, modules []models.Module) Capabilities {
	roles, _ := auth.EffectiveRoles(user)
	caps := Capabilities{
		Roles:       models.NewRoleSet(roles...),
		Permissions: user.PermissionSet(),
		Modules:     models.NewModuleSet(),
		Features:    mapset.NewThreadUnsafeSet[string](),
	}

	granted := user.ModuleSet()
	for _, m := range modules {
		if !m.Enabled {
			continue
		}
		if granted.Cardinality() > 0 && !granted.Contains(m.ID) {
			continue
		}
		caps.Modules.Add(m.ID)
		for _, f := range m.Features {
			caps.Features.Add(f)
		}
	}
	caps.Actions = BuildActionMap(caps.Permissions)
	return caps
}

// CanShow with requireAll=false passes when any listed permission or module is
// held; with requireAll=true every one must be. No requirements always pass.
func (c Capabilities) CanShow(perms []models.PermissionID, modules []models.ModuleID, requireAll bool) bool {
	if len(perms) == 0 && len(modules) == 0 {
		return true
	}
	if requireAll {
		return models.ContainsAll(c.Permissions, perms...) && models.ContainsAll(c.Modules, modules...)
	}
	return models.ContainsAny(c.Permissions, perms...) || models.ContainsAny(c.Modules, modules...)
}

// IsFeatureEnabled requires the feature to be offered by an accessible module
// and, when enabledRoles is non-empty, one of those roles.
func (c Capabilities) IsFeatureEnabled(feature string, enabledRoles []string) bool {
	if len(enabledRoles) > 0 && !models.ContainsAny(c.Roles, enabledRoles...) {
		return false
	}
	return c.Features.Contains(feature)
}

func (c Capabilities) HasAdminFeatures() bool {
	return models.ContainsAny(c.Roles, adminRoles...)
}

func (c Capabilities) HasFinanceFeatures() bool {
	return models.ContainsAny(c.Roles, financeRoles...) || c.Actions.Can("read", "finances")
}

func (c Capabilities) HasPastoralFeatures() bool {
	return models.ContainsAny(c.Roles, pastoralRoles...) || c.Actions.Can("read", "pastoral-care")
}
