package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drex-labs/drex/internal/branding"
	"github.com/drex-labs/drex/internal/config"
	"github.com/drex-labs/drex/internal/gitree"
	"github.com/drex-labs/drex/internal/installer"
	"github.com/drex-labs/drex/internal/lifecycle"
	"github.com/drex-labs/drex/internal/remote"
	"github.com/drex-labs/drex/internal/store"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` tracks third-party extensions (modules and themes) vendored
into a git working tree: it downloads versioned release tarballs from the
package index, unpacks them under a chosen prefix, records provenance in the
` + branding.StoreFile() + ` store at the tree root, and commits files and metadata together.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with build info injected via ldflags.
// Failures print a single diagnostic line to stderr.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// buildController wires the lifecycle controller from the working tree
// the command was invoked in.
func buildController(cmd *cobra.Command) (*lifecycle.Controller, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	tree, err := gitree.Open(cwd)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(tree.Root())
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	st, err := store.Open(tree.Root(), settings.StoreFile)
	if err != nil {
		return nil, err
	}

	client := remote.New(settings)
	return lifecycle.New(client, installer.New(client), st, tree, cmd.OutOrStdout()), nil
}
