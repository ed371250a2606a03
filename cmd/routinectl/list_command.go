package main

import (
	"fmt"
	"strconv"

	"github.com/claude/routinetimer/internal/routine"
	"github.com/claude/routinetimer/internal/upload"
	"github.com/spf13/cobra"
)

type listEntry struct {
	Filename      string `json:"filename"`
	Steps         int    `json:"steps"`
	TotalDuration int    `json:"total_duration"`
	Error         string `json:"error,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var serverURL string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List routines with their step count and total duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL != "" {
				names, err := upload.NewClient(serverURL).FetchCatalog(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, names)
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			store := ctx.store(cmd.ErrOrStderr())
			names, err := store.List()
			if err != nil {
				return err
			}
			entries := make([]listEntry, 0, len(names))
			for _, name := range names {
				e := listEntry{Filename: name}
				if r, err := store.Open(name); err != nil {
					e.Error = err.Error()
				} else {
					e.Steps = len(r.Exercises)
					e.TotalDuration = r.TotalDuration()
				}
				entries = append(entries, e)
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No routines in %s\n", ctx.dir())
				return nil
			}

			color := shouldColorize(cmd.OutOrStdout())
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				if e.Error != "" {
					rows = append(rows, []string{e.Filename, "-", "-", colorize(color, ansiRed, "invalid")})
					continue
				}
				rows = append(rows, []string{e.Filename, strconv.Itoa(e.Steps), routine.FormatSeconds(e.TotalDuration), colorize(color, ansiGreen, "ok")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Routine", "Steps", "Total", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "List the catalog of a running server instead of --dir")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
