package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/routinetimer/internal/routine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <routine>",
		Short: "Show the normalized steps of a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, name := ctx.resolveRoutine(args[0], cmd.ErrOrStderr())
			r, err := store.Open(name)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, r)
			}

			rows := make([][]string, 0, len(r.Exercises))
			for i, step := range r.Exercises {
				rows = append(rows, []string{strconv.Itoa(i + 1), step.Name, strconv.Itoa(step.Length), extrasText(step.Extra)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Exercise", "Seconds", "Extra"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
				[]string{"", "Total", routine.FormatSeconds(r.TotalDuration()), ""},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func extrasText(fields []routine.Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v := "..."
		if f.Value.Kind == yaml.ScalarNode {
			v = f.Value.Value
		}
		parts = append(parts, f.Key+"="+v)
	}
	return strings.Join(parts, " ")
}
