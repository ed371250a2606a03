package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/routinetimer/internal/routine"
	"github.com/mattn/go-isatty"
)

type commandContext struct {
	dirFlag *string
	verbose *bool
}

func newCommandContext(dirFlag *string, verbose *bool) *commandContext {
	return &commandContext{dirFlag: dirFlag, verbose: verbose}
}

// logger writes to stderr so command output on stdout stays parseable.
func (c *commandContext) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.verbose != nil && *c.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (c *commandContext) dir() string {
	if c.dirFlag == nil || strings.TrimSpace(*c.dirFlag) == "" {
		return "routines"
	}
	return *c.dirFlag
}

func (c *commandContext) store(stderr io.Writer) *routine.Store {
	return routine.NewStore(c.dir(), c.logger(stderr))
}

// resolveRoutine splits an argument into a store and a bare filename. A
// plain name is looked up in --dir; anything with a path separator is
// opened from its own directory.
func (c *commandContext) resolveRoutine(arg string, stderr io.Writer) (*routine.Store, string) {
	if !strings.ContainsAny(arg, `/\`) {
		return c.store(stderr), arg
	}
	return routine.NewStore(filepath.Dir(arg), c.logger(stderr)), filepath.Base(arg)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func colorize(on bool, color, s string) string {
	if !on {
		return s
	}
	return color + s + ansiReset
}
