package main

import (
	"fmt"

	"github.com/claude/routinetimer/internal/routine"
	"github.com/spf13/cobra"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <routine>...",
		Short: "Validate routine files and report warnings",
		Long:  "Validate routine files. Plain names are looked up in --dir; paths are opened directly.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			failed := 0
			for _, arg := range args {
				store, name := ctx.resolveRoutine(arg, cmd.ErrOrStderr())
				doc, err := store.Load(name)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", colorize(color, ansiRed, "FAIL"), arg, err)
					continue
				}
				r, warnings, err := routine.Validate(doc)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", colorize(color, ansiRed, "FAIL"), arg, err)
					continue
				}
				fmt.Fprintf(out, "%s %s: %d steps, total %s\n",
					colorize(color, ansiGreen, "ok  "), arg, len(r.Exercises), routine.FormatSeconds(r.TotalDuration()))
				for _, w := range warnings {
					fmt.Fprintf(out, "     %s %s\n", colorize(color, ansiYellow, "warning:"), w)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d routines failed validation", failed, len(args))
			}
			return nil
		},
	}
}
