// Package config loads and validates service configuration for lifekit
// applications.
//
// Configuration comes from a YAML file (viper), a .env file (godotenv),
// and environment variables, in increasing precedence. Services embed
// ServiceConfig in their own config structs and extend ApplyDefaults and
// Validate; struct-level validation uses go-playground/validator tags.
package config
