package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/routinetimer/internal/routine"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal int
	Uploaded   int
	Skipped    int
	Invalid    int
	Errored    int
}

// Uploader pushes every valid routine in a local directory to a server,
// skipping files whose size and hash match the last successful upload.
type Uploader struct {
	client *Client
	state  *StateDB
	store  *routine.Store
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, store *routine.Store, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		store:  store,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pass. Per-file problems are logged and counted;
// only a failure to read the directory or a cancelled context aborts.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	entries, err := os.ReadDir(u.store.Dir())
	if err != nil {
		return &u.stats, fmt.Errorf("reading %s: %w", u.store.Dir(), err)
	}

	server := u.client.ServerURL()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		name := entry.Name()
		if entry.IsDir() || !routine.HasAllowedExtension(name) {
			continue
		}
		u.stats.FilesTotal++

		if _, err := u.store.Open(name); err != nil {
			u.log.Warn("skipping invalid routine", "file", name, "error", err)
			u.stats.Invalid++
			continue
		}

		path := filepath.Join(u.store.Dir(), name)
		data, err := os.ReadFile(path)
		if err != nil {
			u.log.Warn("read failed", "file", name, "error", err)
			u.stats.Errored++
			continue
		}
		hash, size := HashBytes(data), int64(len(data))

		uploaded, err := u.state.IsUploaded(server, name, size, hash)
		if err != nil {
			u.log.Warn("state check failed", "file", name, "error", err)
			u.stats.Errored++
			continue
		}
		if uploaded {
			u.stats.Skipped++
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would upload", "file", name, "bytes", size)
			u.stats.Uploaded++
			continue
		}

		res, err := u.client.UploadRoutine(ctx, name, data)
		if err != nil {
			u.log.Warn("upload failed", "file", name, "error", err)
			u.stats.Errored++
			continue
		}
		if !res.Valid {
			u.log.Warn("server rejected routine", "file", name, "stored_as", res.Filename, "error", res.Error)
			u.stats.Errored++
			continue
		}

		if err := u.state.MarkUploaded(server, name, size, hash); err != nil {
			u.log.Warn("failed to mark uploaded", "file", name, "error", err)
		}
		u.stats.Uploaded++
		u.log.Info("uploaded routine", "file", name, "stored_as", res.Filename, "total_duration", res.TotalDuration)
	}

	return &u.stats, nil
}
