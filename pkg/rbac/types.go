package rbac

import "strings"

const MaxInheritanceDepth = 10

// Role grants permissions directly and through inherited roles.
type Role struct {
	Permissions []string `yaml:"permissions"`
	Inherits    []string `yaml:"inherits,omitempty"`
}

// matches reports whether granted covers want. "*" covers everything and
// "notifications.*" covers every "notifications." permission.
func matches(granted, want string) bool {
	if granted == "*" || granted == want {
		return true
	}
	if prefix, ok := strings.CutSuffix(granted, ".*"); ok {
		return strings.HasPrefix(want, prefix+".")
	}
	return false
}
