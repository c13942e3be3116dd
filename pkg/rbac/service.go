package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// RoleSource loads the role policy.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

// Authorizer answers permission checks against a flattened role policy.
type Authorizer struct {
	permissions map[string][]string
}

// NewAuthorizer loads roles from source, rejects inheritance cycles, and
// resolves every role to its full permission list.
func NewAuthorizer(ctx context.Context, source RoleSource) (*Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateInheritance(roles); err != nil {
		return nil, err
	}

	perms := make(map[string][]string, len(roles))
	for name := range roles {
		all := collect(name, roles, map[string]bool{}, 0)
		slices.Sort(all)
		perms[name] = slices.Compact(all)
	}
	return &Authorizer{permissions: perms}, nil
}

// Can returns ErrInvalidRole for unknown roles and ErrInsufficientPermissions
// when the role lacks permission.
func (a *Authorizer) Can(role, permission string) error {
	granted, ok := a.permissions[role]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	for _, g := range granted {
		if matches(g, permission) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s lacks %s", ErrInsufficientPermissions, role, permission)
}

// Roles lists the known role names in sorted order.
func (a *Authorizer) Roles() []string {
	names := make([]string, 0, len(a.permissions))
	for name := range a.permissions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func collect(name string, roles map[string]Role, visited map[string]bool, depth int) []string {
	if depth > MaxInheritanceDepth || visited[name] {
		return nil
	}
	visited[name] = true

	role, ok := roles[name]
	if !ok {
		return nil
	}
	out := slices.Clone(role.Permissions)
	for _, parent := range role.Inherits {
		out = append(out, collect(parent, roles, visited, depth+1)...)
	}
	return out
}

func validateInheritance(roles map[string]Role) error {
	for name := range roles {
		if err := walk(name, roles, []string{name}); err != nil {
			return err
		}
	}
	return nil
}

func walk(name string, roles map[string]Role, path []string) error {
	if len(path) > MaxInheritanceDepth+1 {
		return errors.Join(ErrCircularInheritance,
			fmt.Errorf("inheritance depth exceeds maximum allowed depth of %d", MaxInheritanceDepth))
	}
	for _, parent := range roles[name].Inherits {
		if slices.Contains(path, parent) {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("circular inheritance detected: %s -> %s", name, parent))
		}
		if err := walk(parent, roles, append(slices.Clone(path), parent)); err != nil {
			return err
		}
	}
	return nil
}
