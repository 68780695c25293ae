// Package coordinator implements C11: selecting between the two ingestion
// modes spec.md §9 (open question 6) requires supporting side by side —
// watching bucket files as they're written, or polling a node's catalog
// database — and running whichever one the configuration names.
package coordinator

import (
	"context"
	"log/slog"
	"time"

	"quasarindexer/internal/dispatch"
	"quasarindexer/internal/headeringest"
	"quasarindexer/internal/watcher"
)

// Mode selects which ingestion strategy Run drives.
type Mode string

const (
	// ModeWatch watches a bucket directory for newly-written files.
	ModeWatch Mode = "watch"
	// ModePoll polls a node catalog database for new ledgers.
	ModePoll Mode = "poll"
)

// Config is the subset of internal/config.Config the coordinator needs.
type Config struct {
	Mode            Mode
	BucketsPath     string
	PollingInterval time.Duration
}

// Coordinator drives the selected ingestion mode until its context is
// canceled.
type Coordinator struct {
	log    *slog.Logger
	cfg    Config
	disp   *dispatch.Dispatcher
	ingest *headeringest.Ingester
}

func New(log *slog.Logger, cfg Config, disp *dispatch.Dispatcher, ingest *headeringest.Ingester) *Coordinator {
	return &Coordinator{log: log, cfg: cfg, disp: disp, ingest: ingest}
}

// Run blocks until ctx is canceled.
func (c *Coordinator) Run(ctx context.Context) error {
	switch c.cfg.Mode {
	case ModeWatch:
		return c.runWatch(ctx)
	case ModePoll:
		return c.runPoll(ctx)
	default:
		c.log.Warn("unknown ingestion mode, defaulting to watch", "mode", c.cfg.Mode)
		return c.runWatch(ctx)
	}
}

func (c *Coordinator) runWatch(ctx context.Context) error {
	entries, err := watcher.Watch(c.log, c.cfg.BucketsPath)
	if err != nil {
		return err
	}
	c.disp.Run(ctx, entries)
	return nil
}

// pollState names the polling-mode state machine's three states (spec.md
// §4.10): idle while waiting out the interval, checking while asking the
// catalog for the next ledger, draining while there's a known backlog to
// work through without waiting.
type pollState int

const (
	pollIdle pollState = iota
	pollChecking
	pollDraining
)

func (c *Coordinator) runPoll(ctx context.Context) error {
	state := pollChecking
	ticker := time.NewTicker(c.cfg.PollingInterval)
	defer ticker.Stop()

	for {
		switch state {
		case pollIdle:
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				state = pollChecking
			}

		case pollChecking, pollDraining:
			if ctx.Err() != nil {
				return nil
			}
			advanced, err := c.ingest.PollNext(ctx)
			if err != nil {
				c.log.Error("polling ingest failed", "error", err)
				state = pollIdle
				continue
			}
			if advanced {
				state = pollDraining
			} else {
				state = pollIdle
			}
		}
	}
}
