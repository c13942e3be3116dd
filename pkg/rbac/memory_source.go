package rbac

import (
	"context"
	"maps"
)

// DefaultPolicy grants broadcast rights to ADMIN only.
var DefaultPolicy = map[string]Role{
	"ADMIN":  {Permissions: []string{"notifications.*"}},
	"VENDOR": {},
	"USER":   {},
}

type memorySource struct {
	roles map[string]Role
}

func NewMemorySource(roles map[string]Role) RoleSource {
	return &memorySource{roles: maps.Clone(roles)}
}

func (s *memorySource) Load(context.Context) (map[string]Role, error) {
	return s.roles, nil
}
