// Package config loads and validates the service configuration.
//
// Configuration is a YAML file with ${VAR} environment expansion, so
// secrets like the Dhan access token can come from the environment.
// Loading applies defaults for optional fields and validates required
// ones; nothing in the core logic is hardcoded.
package config
