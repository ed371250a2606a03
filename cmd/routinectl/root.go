package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var dirFlag string
	var verbose bool

	ctx := newCommandContext(&dirFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "routinectl",
		Short:         "Inspect, check and publish workout routines",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "routines", "Routines directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at info level")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newPushCommand(ctx))

	return rootCmd
}
