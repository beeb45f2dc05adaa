package access

import (
	"sort"
	"strings"

	"go-chms/internal/common/models"
)

const wildcard = "*"

// ActionMap answers "may the user perform action on entity" from
// "entity:action" permission ids. "entity:manage", "entity:*" and "*" grant
// every action on the entity, or on everything.
type ActionMap map[string]map[string]bool

func BuildActionMap(perms models.PermissionSet) ActionMap {
	m := ActionMap{}
	if perms == nil {
		return m
	}
	for _, id := range perms.ToSlice() {
		raw := strings.ToLower(strings.TrimSpace(string(id)))
		if raw == wildcard {
			m.add(wildcard, wildcard)
			continue
		}
		entity, action, ok := strings.Cut(raw, ":")
		if !ok || entity == "" || action == "" {
			continue
		}
		if action == "manage" {
			action = wildcard
		}
		m.add(entity, action)
	}
	return m
}

func (m ActionMap) add(entity, action string) {
	if m[entity] == nil {
		m[entity] = map[string]bool{}
	}
	m[entity][action] = true
}

func (m ActionMap) Can(action, entity string) bool {
	action, entity = strings.ToLower(action), strings.ToLower(entity)
	return m[wildcard][wildcard] || m[entity][wildcard] || m[entity][action]
}

// Entities lists the entities with at least one granted action, sorted.
func (m ActionMap) Entities() []string {
	out := make([]string, 0, len(m))
	for e := range m {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
