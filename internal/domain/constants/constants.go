// Package constants defines shared domain-level constant values.
package constants

// Environment names used in configuration.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider types.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Role names carried in JWT claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
