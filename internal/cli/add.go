package cli

import (
	"github.com/spf13/cobra"

	"github.com/drex-labs/drex/internal/lifecycle"
)

var addFlags struct {
	commitFlags
	prefix string
}

var addCmd = &cobra.Command{
	Use:   "add <name> <version>",
	Short: "Download and track a new extension",
	Long: `Download the release tarball for <name> at <version> from the package
index, unpack it under --prefix, record it in the metadata store, and commit
files and metadata as a single unit of history.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addFlags.register(addCmd)
	addCmd.Flags().StringVar(&addFlags.prefix, "prefix", "", "Directory the extension's files go under (required)")
	_ = addCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := addFlags.validate(); err != nil {
		return err
	}

	ctrl, err := buildController(cmd)
	if err != nil {
		return err
	}

	return ctrl.Add(cmd.Context(), lifecycle.AddRequest{
		Name:        args[0],
		Version:     args[1],
		Prefix:      lifecycle.NormalizePrefix(addFlags.prefix),
		CommitFlags: addFlags.lifecycle(),
	})
}
