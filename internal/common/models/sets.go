package models

import mapset "github.com/deckarep/golang-set/v2"

type (
	PermissionSet = mapset.Set[PermissionID]
	ModuleSet     = mapset.Set[ModuleID]
	RoleSet       = mapset.Set[string]
)

func NewPermissionSet(ids ...PermissionID) PermissionSet {
	return mapset.NewThreadUnsafeSet(ids...)
}

func NewModuleSet(ids ...ModuleID) ModuleSet {
	return mapset.NewThreadUnsafeSet(ids...)
}

func NewRoleSet(names ...string) RoleSet {
	return mapset.NewThreadUnsafeSet(names...)
}

// ContainsAny reports whether set shares at least one element with wanted.
func ContainsAny[T comparable](set mapset.Set[T], wanted ...T) bool {
	for _, w := range wanted {
		if set.Contains(w) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every element of wanted is in set. An empty
// wanted list is trivially satisfied.
func ContainsAll[T comparable](set mapset.Set[T], wanted ...T) bool {
	for _, w := range wanted {
		if !set.Contains(w) {
			return false
		}
	}
	return true
}
