// Package config loads application configuration from defaults, an
// optional YAML file, and CURATOR_-prefixed environment variables, in
// that order of precedence.
package config
