package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the pkc binary",
		Args:  cobra.NoArgs,
		// The version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pkc %s (commit %s, built %s)\n", pkc.LibraryVersion(), pkc.Commit, pkc.BuildDate)
		},
	}
}
