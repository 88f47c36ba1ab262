// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package, and Go's //go:embed bakes
// it into the binary. The accessors fall back to hard defaults when the
// embedded file is missing or incomplete.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

// defaults holds the parsed branding values, loaded once on first access.
var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	ProjectBase string `yaml:"project_base"`
	ArchiveBase string `yaml:"archive_base"`
	StoreFile   string `yaml:"store_file"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "drex",
			DisplayName: "Drex",
			Description: "Vendored extension manager for Drupal-style projects",
			EnvPrefix:   "DREX",
			GoModule:    "github.com/drex-labs/drex",
			ProjectBase: "https://www.drupal.org/project",
			ArchiveBase: "https://ftp.drupal.org/files/projects",
			StoreFile:   ".extensions",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "drex").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Drex").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "DREX").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime; kept so
// forks can audit what they rebranded.
func GoModule() string { load(); return defaults.GoModule }

// ProjectBase returns the default base URL of the index's project pages.
func ProjectBase() string { load(); return defaults.ProjectBase }

// ArchiveBase returns the default base URL for release tarballs.
func ArchiveBase() string { load(); return defaults.ArchiveBase }

// StoreFile returns the default metadata store file name at the tree root.
func StoreFile() string { load(); return defaults.StoreFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "DREX_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
