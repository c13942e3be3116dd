package rbac

import "errors"

var (
	ErrInvalidRole             = errors.New("rbac: invalid role")
	ErrInsufficientPermissions = errors.New("rbac: insufficient permissions")
	ErrRoleNotFound            = errors.New("rbac: caller role not found")
	ErrCircularInheritance     = errors.New("rbac: circular inheritance")
	ErrInvalidPolicy           = errors.New("rbac: invalid policy")
)
