// Package config resolves per-invocation settings from the optional
// .drex.yaml file at the working-tree root and DREX_* environment
// variables, with embedded branding defaults as the base layer.
package config
