// Package jwt signs and verifies HS256 JSON Web Tokens and provides HTTP
// middleware that authenticates admin API callers from a bearer token.
//
//	svc, err := jwt.NewFromString(cfg.JWTSigningKey)
//	r.Use(jwt.Middleware(svc, writeUnauthorized))
//
//	claims, _ := jwt.ClaimsFromContext(r.Context())
//	_ = claims.Subject // admin user ID
//	_ = claims.Role    // "ADMIN", "USER", ...
package jwt
