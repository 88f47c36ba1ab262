package cli

import (
	"github.com/spf13/cobra"

	"github.com/drex-labs/drex/internal/lifecycle"
)

var updateFlags struct {
	commitFlags
	prefix string
}

var updateCmd = &cobra.Command{
	Use:   "update <name> <version>",
	Short: "Replace a tracked extension with another version",
	Long: `Download <version> of an already-tracked extension, unpack it over the
current payload, and record the new version. The extension's prefix and type
never change on update.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	updateFlags.register(updateCmd)
	updateCmd.Flags().StringVar(&updateFlags.prefix, "prefix", "", "Ignored; the recorded prefix is used")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := updateFlags.validate(); err != nil {
		return err
	}
	if updateFlags.prefix != "" {
		warnIgnoredPrefix(cmd, "update", updateFlags.quiet)
	}

	ctrl, err := buildController(cmd)
	if err != nil {
		return err
	}

	return ctrl.Update(cmd.Context(), lifecycle.UpdateRequest{
		Name:        args[0],
		Version:     args[1],
		CommitFlags: updateFlags.lifecycle(),
	})
}
