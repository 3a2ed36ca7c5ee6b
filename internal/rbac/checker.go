package rbac

import "strings"

// Policy grants permission patterns per role. A pattern is an exact
// permission, "*", or a prefix ending in "*" such as "content:*".
type Policy map[string][]string

// Allows reports whether role holds perm.
func (p Policy) Allows(role, perm string) bool {
	for _, pattern := range p[role] {
		if matchPerm(pattern, perm) {
			return true
		}
	}
	return false
}

// AllowsAny reports whether role holds at least one of perms.
func (p Policy) AllowsAny(role string, perms ...string) bool {
	for _, perm := range perms {
		if p.Allows(role, perm) {
			return true
		}
	}
	return false
}

func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	prefix, ok := strings.CutSuffix(pattern, "*")
	return ok && strings.HasPrefix(perm, prefix)
}
