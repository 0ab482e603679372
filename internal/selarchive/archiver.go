package selarchive

import (
	"context"
	"errors"
	"log"
	"time"

	"bmc-redfish/internal/observability/metrics"
	"bmc-redfish/internal/snapshot"
)

// Archiver periodically copies new event log entries into the archive.
// The firmware SEL wraps when full, so entries not archived before the
// wrap are lost; the archiver relies on the monotonic entry id to pick up
// exactly the entries it has not seen.
type Archiver struct {
	source   snapshot.Source
	repo     Repository
	interval time.Duration
	logger   *log.Logger
}

// NewArchiver constructs an Archiver.
func NewArchiver(source snapshot.Source, repo Repository, interval time.Duration, logger *log.Logger) (*Archiver, error) {
	if source == nil {
		return nil, errors.New("selarchive: nil source")
	}
	if repo == nil {
		return nil, errors.New("selarchive: nil repository")
	}
	if interval <= 0 {
		return nil, errors.New("selarchive: interval must be positive")
	}
	return &Archiver{source: source, repo: repo, interval: interval, logger: logger}, nil
}

// Run archives on a fixed interval until the context is cancelled.
func (a *Archiver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			written, err := a.RunOnce(ctx)
			if err != nil {
				metrics.ObserveArchiveRun(metrics.ResultError, written)
				if a.logger != nil {
					a.logger.Printf("selarchive: pass failed: %v", err)
				}
				continue
			}
			metrics.ObserveArchiveRun(metrics.ResultSuccess, written)
		}
	}
}

// RunOnce archives all entries newer than the archive high-water mark and
// returns how many were written.
func (a *Archiver) RunOnce(ctx context.Context) (int, error) {
	sel, err := a.source.ReadEventLog(ctx)
	if err != nil {
		return 0, err
	}
	if len(sel.Entries) == 0 {
		return 0, nil
	}

	lastID, err := a.repo.LastArchivedID(ctx)
	if err != nil {
		return 0, err
	}

	fresh := make([]snapshot.LogEntry, 0, len(sel.Entries))
	for _, entry := range sel.Entries {
		if entry.ID > lastID {
			fresh = append(fresh, entry)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	return a.repo.Archive(ctx, fresh)
}
