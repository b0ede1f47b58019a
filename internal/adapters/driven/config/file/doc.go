// Package file implements the config store port on a TOML file in the
// orgdex config directory, with environment variable overrides for the
// settings that matter in deployment.
package file
