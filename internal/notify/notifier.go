package notify

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/clock"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/status"
)

// Deliverer sends one raw status line.
type Deliverer interface {
	Deliver(ctx context.Context, raw string) bool
}

// Summary counts what one notifier run did.
type Summary struct {
	Lines   int
	Found   int
	Sent    int
	Failed  int
	Skipped int // not attempted because the run was interrupted
}

// Notifier scans the snapshot log and relays every status entry, spacing
// messages by Delay.
type Notifier struct {
	relay Deliverer
	delay time.Duration
	clock clock.Clock
	log   logging.Logger
}

func New(d Deliverer, delay time.Duration, clk clock.Clock, log logging.Logger) *Notifier {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Notifier{relay: d, delay: delay, clock: clk, log: log}
}

// ProcessFile relays the status entries of the log at path. A missing or
// unreadable file is logged and yields an empty summary.
func (n *Notifier) ProcessFile(ctx context.Context, path string) Summary {
	entries, lines, err := ScanFile(path, n.log)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			n.log.Error("Log file '%s' does not exist.", path)
		} else {
			n.log.Error("Error processing log file: %v", err)
		}
		if len(entries) == 0 {
			return Summary{Lines: lines}
		}
	}

	if lines == 0 {
		n.log.Info("No lines to process.")
		return Summary{}
	}
	n.log.Info("Processing %d line(s).", lines)

	sum := n.Process(ctx, entries)
	sum.Lines = lines
	return sum
}

// Process relays entries in order. Every message except the first is
// preceded by the configured delay.
func (n *Notifier) Process(ctx context.Context, entries []Entry) Summary {
	sum := Summary{Found: len(entries)}
	if len(entries) == 0 {
		n.log.Info("No %s entries detected to send.", status.Tag)
		return sum
	}

	n.log.Info("Detected %d %s entry(ies) to send.", len(entries), status.Tag)
	for idx, e := range entries {
		if idx > 0 {
			n.log.Debug("Waiting for %s before sending the next message.", n.delay)
			if err := n.clock.Sleep(ctx, n.delay); err != nil {
				n.log.Error("Interrupted: %v", err)
				sum.Skipped = len(entries) - idx
				break
			}
		}

		n.log.Debug("Line %d: Detected %s entry.", e.Line, status.Tag)
		if n.relay.Deliver(ctx, e.Message) {
			sum.Sent++
		} else {
			sum.Failed++
			n.log.Error("Failed to send Telegram message for line %d: %s", e.Line, e.Message)
		}
	}

	n.log.Info("Processed %d %s entry(ies).", sum.Sent+sum.Failed, status.Tag)
	return sum
}
