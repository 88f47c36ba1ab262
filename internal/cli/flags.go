package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drex-labs/drex/internal/lifecycle"
)

// commitFlags are the commit-shaping options every subcommand carries.
type commitFlags struct {
	message  string
	quiet    bool
	noIndex  bool
	noCommit bool
}

func (f *commitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "Use a custom commit message")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Suppress informational output")
	cmd.Flags().BoolVar(&f.noIndex, "no-index", false, "Leave the metadata store untouched and skip staging and committing")
	cmd.Flags().BoolVar(&f.noCommit, "no-commit", false, "Stage changes but leave the commit to the user")
}

// validate rejects contradictory pairings up front, before any network
// or filesystem activity: each pairing implies incompatible expectations
// about whether a commit happens at all.
func (f *commitFlags) validate() error {
	switch {
	case f.noIndex && f.noCommit:
		return errors.New("--no-index already skips the commit; combining it with --no-commit is contradictory")
	case f.noIndex && f.message != "":
		return errors.New("--message needs a commit to attach to, which --no-index skips")
	case f.message != "" && f.noCommit:
		return errors.New("--message needs a commit to attach to, which --no-commit skips")
	}
	return nil
}

func (f *commitFlags) lifecycle() lifecycle.CommitFlags {
	return lifecycle.CommitFlags{
		Message:  f.message,
		NoIndex:  f.noIndex,
		NoCommit: f.noCommit,
		Quiet:    f.quiet,
	}
}

// warnIgnoredPrefix tells the user their --prefix had no effect. The
// operation proceeds regardless.
func warnIgnoredPrefix(cmd *cobra.Command, operation string, quiet bool) {
	if quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: --prefix is ignored for %s; the recorded prefix is used.\n", operation)
}
