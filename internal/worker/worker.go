// Package worker runs the snapshot lifecycle for each configured server:
// create, wait, apply retention, recount, report.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/clock"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/config"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/hcloud"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/retention"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/snapshot"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/status"
)

// Provider is the snapshot API the worker drives. *hcloud.Client satisfies it.
type Provider interface {
	ListSnapshots(ctx context.Context, srv config.Server) ([]snapshot.Snapshot, error)
	CreateSnapshot(ctx context.Context, srv config.Server, description string) (string, error)
	ImageStatus(ctx context.Context, srv config.Server, id string) (string, error)
	DeleteImage(ctx context.Context, srv config.Server, id string) error
}

var _ Provider = (*hcloud.Client)(nil)

// Options tunes the worker. Zero values fall back to the defaults.
type Options struct {
	Script       string
	Hostname     string
	PollInterval time.Duration
	MaxWait      time.Duration
	ServerDelay  time.Duration
}

const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxWait      = 300 * time.Second
	DefaultServerDelay  = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxWait <= 0 {
		o.MaxWait = DefaultMaxWait
	}
	if o.ServerDelay < 0 {
		o.ServerDelay = 0
	}
	return o
}

// Worker processes one server at a time.
type Worker struct {
	provider Provider
	log      logging.Logger
	clock    clock.Clock
	opts     Options
}

// New creates a worker. A nil clock means the wall clock.
func New(p Provider, log logging.Logger, clk clock.Clock, opts Options) *Worker {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Worker{
		provider: p,
		log:      log,
		clock:    clk,
		opts:     opts.withDefaults(),
	}
}

// ErrInterrupted is returned by Handle when ctx is done before the server
// finished. No status record is produced in that case.
var ErrInterrupted = errors.New("interrupted")

// Handle runs the full lifecycle for srv and returns the status record it
// logged. Failures of individual steps are logged and do not stop the
// remaining steps. Cancellation does: the server is left as is and no
// status is reported for it.
func (w *Worker) Handle(ctx context.Context, srv config.Server) (status.Record, error) {
	w.log.Info("--- Managing server '%s' (ID: %s) ---", srv.Name, srv.ID)
	w.log.Info("Configuration: Retain last %d snapshot(s). New snapshots will be named as '%s-<timestamp>'.",
		srv.RetainLastSnapshots, srv.Name)

	existing := w.listSnapshots(ctx, srv)
	if err := w.interrupted(ctx, srv); err != nil {
		return status.Record{}, err
	}
	w.log.Info("Server '%s': Found %d existing snapshot(s).", srv.Name, len(existing))

	created := w.createSnapshot(ctx, srv)
	if err := w.interrupted(ctx, srv); err != nil {
		return status.Record{}, err
	}

	current := w.listSnapshots(ctx, srv)
	if err := w.interrupted(ctx, srv); err != nil {
		return status.Record{}, err
	}
	w.log.Info("Server '%s': Found %d snapshot(s) after creation.", srv.Name, len(current))

	plan := retention.Select(current, srv.RetainLastSnapshots)
	if len(plan.Delete) > 0 {
		w.log.Info("Server '%s': Identified %d snapshot(s) for deletion: %v",
			srv.Name, len(plan.Delete), snapshot.Names(plan.Delete))
		if err := w.deleteSnapshots(ctx, srv, plan.Delete); err != nil {
			return status.Record{}, err
		}
	} else {
		w.log.Info("Server '%s': No snapshots to delete based on retention policy.", srv.Name)
	}

	final := w.listSnapshots(ctx, srv)
	if err := w.interrupted(ctx, srv); err != nil {
		return status.Record{}, err
	}

	rec := status.New(w.opts.Script, srv.Name, created != "", w.opts.Hostname, w.clock.Now(), created, len(final))
	w.log.Info(rec.String())

	w.log.Info("--- Completed snapshot management for server '%s' ---", srv.Name)
	return rec, nil
}

func (w *Worker) interrupted(ctx context.Context, srv config.Server) error {
	if err := ctx.Err(); err != nil {
		w.log.Error("Server '%s': Interrupted, no status reported: %v", srv.Name, err)
		return fmt.Errorf("%w: server '%s': %w", ErrInterrupted, srv.Name, err)
	}
	return nil
}

// listSnapshots never fails: provider or parse errors are logged and count
// as no snapshots.
func (w *Worker) listSnapshots(ctx context.Context, srv config.Server) []snapshot.Snapshot {
	snaps, err := w.provider.ListSnapshots(ctx, srv)
	if err != nil {
		w.log.Error("Server '%s': No snapshots retrieved or an error occurred during retrieval: %v", srv.Name, err)
		return nil
	}
	return snaps
}

// createSnapshot returns the name of the new snapshot once it is available,
// or "" if creation failed or timed out.
func (w *Worker) createSnapshot(ctx context.Context, srv config.Server) string {
	name := snapshot.NewName(srv.Name, w.clock.Now())

	id, err := w.provider.CreateSnapshot(ctx, srv, name)
	if err != nil {
		w.log.Error("Server '%s': Failed to create a new snapshot: %v", srv.Name, err)
		return ""
	}

	if !w.waitForReady(ctx, srv, id) {
		if ctx.Err() == nil {
			w.log.Error("Server '%s': Snapshot creation timed out.", srv.Name)
		}
		return ""
	}

	w.log.Info("Server '%s': New snapshot created: %s", srv.Name, name)
	return name
}

// waitForReady polls the image status until it is available or MaxWait
// has elapsed.
func (w *Worker) waitForReady(ctx context.Context, srv config.Server, id string) bool {
	start := w.clock.Now()

	for w.clock.Now().Sub(start) < w.opts.MaxWait {
		st, err := w.provider.ImageStatus(ctx, srv, id)
		switch {
		case err != nil:
			w.log.Error("Server '%s': Failed to read snapshot status: %v", srv.Name, err)
		case st == hcloud.StatusAvailable:
			w.log.Info("Server '%s': Snapshot %s is now available.", srv.Name, id)
			return true
		default:
			w.log.Debug("Server '%s': Snapshot %s status: %s", srv.Name, id, st)
		}

		if err := w.clock.Sleep(ctx, w.opts.PollInterval); err != nil {
			return false
		}
	}

	w.log.Error("Server '%s': Snapshot %s did not become available within %s.", srv.Name, id, w.opts.MaxWait)
	return false
}

// deleteSnapshots removes each snapshot independently. It stops early only
// when ctx is done.
func (w *Worker) deleteSnapshots(ctx context.Context, srv config.Server, snaps []snapshot.Snapshot) error {
	for _, s := range snaps {
		if err := w.interrupted(ctx, srv); err != nil {
			return err
		}
		if err := w.provider.DeleteImage(ctx, srv, s.ID); err != nil {
			w.log.Error("Server '%s': Failed to delete snapshot: %s: %v", srv.Name, s.Name, err)
			continue
		}
		w.log.Info("Server '%s': Snapshot deleted: %s", srv.Name, s.Name)
	}
	return nil
}
