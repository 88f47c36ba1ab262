package cli

import (
	"github.com/spf13/cobra"

	"github.com/drex-labs/drex/internal/lifecycle"
)

var moveFlags struct {
	commitFlags
	prefix string
}

var moveCmd = &cobra.Command{
	Use:   "move <name>",
	Short: "Relocate a tracked extension to another prefix",
	Long: `Move a tracked extension's directory to --prefix and record the new
location. The payload itself is untouched; version control sees a deletion
at the old path and an addition at the new one.`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

func init() {
	moveFlags.register(moveCmd)
	moveCmd.Flags().StringVar(&moveFlags.prefix, "prefix", "", "Directory the extension moves under (required)")
	_ = moveCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	if err := moveFlags.validate(); err != nil {
		return err
	}

	ctrl, err := buildController(cmd)
	if err != nil {
		return err
	}

	return ctrl.Move(cmd.Context(), lifecycle.MoveRequest{
		Name:        args[0],
		Prefix:      lifecycle.NormalizePrefix(moveFlags.prefix),
		CommitFlags: moveFlags.lifecycle(),
	})
}
