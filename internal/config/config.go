package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/drex-labs/drex/internal/branding"
)

const (
	fileName = ".drex"
	fileType = "yaml"
)

// Settings holds the resolved configuration for one invocation.
type Settings struct {
	// ProjectBase is the base URL of the index's project pages, used for
	// extension name existence probes.
	ProjectBase string
	// ArchiveBase is the base URL the release tarballs are fetched from.
	ArchiveBase string
	// StoreFile is the metadata store file name at the working-tree root.
	StoreFile string
	// Timeout bounds every HTTP request; expiry reads as "not accessible".
	Timeout time.Duration
	// Retries is the attempt budget for probes that fail at the transport
	// level. Definitive answers (200/404) are never retried.
	Retries int
}

// Load reads the optional .drex.yaml at the working-tree root, overlays
// DREX_* environment variables, and returns the resolved settings.
// A missing config file is not an error.
func Load(root string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(root)

	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("remote.project_base", branding.ProjectBase())
	v.SetDefault("remote.archive_base", branding.ArchiveBase())
	v.SetDefault("store.file", branding.StoreFile())
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.retries", 3)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Settings{
		ProjectBase: strings.TrimRight(v.GetString("remote.project_base"), "/"),
		ArchiveBase: strings.TrimRight(v.GetString("remote.archive_base"), "/"),
		StoreFile:   v.GetString("store.file"),
		Timeout:     v.GetDuration("http.timeout"),
		Retries:     v.GetInt("http.retries"),
	}, nil
}
