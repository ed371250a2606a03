package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/claude/routinetimer/internal/upload"
	"github.com/spf13/cobra"
)

func newPushCommand(ctx *commandContext) *cobra.Command {
	var serverURL string
	var stateDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload new or changed routines to a server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = os.Getenv("ROUTINETIMER_SERVER")
			}
			if serverURL == "" {
				return errors.New("--server is required (or set ROUTINETIMER_SERVER)")
			}
			if stateDir == "" {
				dir, err := upload.DefaultStateDir()
				if err != nil {
					return err
				}
				stateDir = dir
			}

			state, err := upload.OpenStateDB(stateDir)
			if err != nil {
				return err
			}
			defer state.Close()

			log := ctx.logger(cmd.ErrOrStderr())
			u := upload.New(upload.NewClient(serverURL), state, ctx.store(cmd.ErrOrStderr()), dryRun, log)
			stats, err := u.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("push: %w", err)
			}

			verb := "uploaded"
			if dryRun {
				verb = "would upload"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d routines: %d %s, %d unchanged, %d invalid, %d failed\n",
				stats.FilesTotal, stats.Uploaded, verb, stats.Skipped, stats.Invalid, stats.Errored)
			if stats.Errored > 0 {
				return fmt.Errorf("%d routines failed to upload", stats.Errored)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Server base URL, e.g. http://127.0.0.1:18347")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "Upload state directory (default ~/.routinetimer)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and report without uploading")
	return cmd
}
