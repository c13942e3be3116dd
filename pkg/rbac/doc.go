// Package rbac maps roles to permissions. Policies come from memory or a
// YAML file, may inherit from other roles, and support "*" and "prefix.*"
// wildcards.
//
//	authz, err := rbac.NewAuthorizer(ctx, rbac.NewYAMLFileSource("rbac.yaml"))
//	if err := authz.Can("ADMIN", "notifications.broadcast"); err != nil {
//		// 403
//	}
package rbac
