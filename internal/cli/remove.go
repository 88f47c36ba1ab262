package cli

import (
	"github.com/spf13/cobra"

	"github.com/drex-labs/drex/internal/lifecycle"
)

var removeFlags struct {
	commitFlags
	prefix string
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a tracked extension and its record",
	Long: `Delete a tracked extension's directory from the working tree, remove its
record from the metadata store, and commit both deletions. When the last
record goes, the store file itself is removed in a follow-up commit.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeFlags.register(removeCmd)
	removeCmd.Flags().StringVar(&removeFlags.prefix, "prefix", "", "Ignored; the recorded prefix is used")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := removeFlags.validate(); err != nil {
		return err
	}
	if removeFlags.prefix != "" {
		warnIgnoredPrefix(cmd, "remove", removeFlags.quiet)
	}

	ctrl, err := buildController(cmd)
	if err != nil {
		return err
	}

	return ctrl.Remove(cmd.Context(), lifecycle.RemoveRequest{
		Name:        args[0],
		CommitFlags: removeFlags.lifecycle(),
	})
}
