package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/config"
)

// RunAll processes servers in order, waiting ServerDelay between them. A
// failure on one server never stops the others. Cancelling ctx stops the
// loop; the interrupted server is returned with an ErrInterrupted result.
func (w *Worker) RunAll(ctx context.Context, servers []config.Server) []Result {
	runID := uuid.NewString()
	w.log.Info("Run %s: processing %d server(s)", runID, len(servers))

	results := make([]Result, 0, len(servers))
	for idx, srv := range servers {
		if ctx.Err() != nil {
			w.log.Error("Run %s: interrupted before server '%s': %v", runID, srv.Name, ctx.Err())
			break
		}

		res := w.handleSafe(ctx, srv)
		results = append(results, res)
		if errors.Is(res.Err, ErrInterrupted) {
			w.log.Error("Run %s: interrupted during server '%s'", runID, srv.Name)
			break
		}
		if res.Err != nil {
			w.log.Error("An unexpected error occurred for server '%s': %v", srv.Name, res.Err)
		}

		if idx < len(servers)-1 {
			w.log.Info("Waiting for %s before processing the next server...", w.opts.ServerDelay)
			if err := w.clock.Sleep(ctx, w.opts.ServerDelay); err != nil {
				w.log.Error("Run %s: interrupted: %v", runID, err)
				break
			}
		}
	}

	w.log.Info("Run %s: finished %d of %d server(s)", runID, len(results), len(servers))
	return results
}

// handleSafe turns a panic inside Handle into an error result.
func (w *Worker) handleSafe(ctx context.Context, srv config.Server) (res Result) {
	res.Server = srv
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic: %v", r)
		}
	}()
	res.Record, res.Err = w.Handle(ctx, srv)
	return res
}
