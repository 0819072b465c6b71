// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation. The command line is reserved for the input path, so
// FromEnv assembles the effective configuration purely from the
// environment: an optional file named by SETTLER_CONFIG, then per-field
// SETTLER_* overrides, then defaults.
package config
