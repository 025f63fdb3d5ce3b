// Package cli holds the refiner's cobra commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose int
	Quiet   bool
}

// NewRootCommand creates the root command for the refiner CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "refiner",
		Short: "Refine raw NFL boxscores into canonical game documents",
		Long: `refiner watches a directory of raw ESPN-style boxscore payloads and writes one
normalized, roster-merged document per game into an output directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Quiet && opts.Verbose > 0 {
				return fmt.Errorf("--quiet and --verbose cannot be combined")
			}
			return nil
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "-v logs info, -vv logs debug")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "only log errors")

	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
