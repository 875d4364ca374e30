// Package cli implements fmsctl, an offline companion to the API that computes
// dashboard snapshots from fixture files.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// NewRootCmd builds the fmsctl command tree. Flags can also be supplied via
// FMS_-prefixed environment variables, e.g. FMS_WINDOW=quarterly.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FMS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "fmsctl",
		Short:         "Compute facility dashboard snapshots from data files.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.AddCommand(newSnapshotCmd(v), newVersionCmd())
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
