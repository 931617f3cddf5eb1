package notify

import (
	"context"
	"time"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/clock"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/retry"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/status"
)

// Relay formats status lines and sends them with bounded retries.
type Relay struct {
	sender Sender
	policy retry.Policy
	log    logging.Logger
}

func NewRelay(s Sender, attempts int, delay time.Duration, clk clock.Clock, log logging.Logger) *Relay {
	policy := retry.Policy{
		Attempts: attempts,
		Delay:    delay,
		Clock:    clk,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Error("Failed to send Telegram message: %v", err)
			log.Info("Retrying in %s... (Attempt %d/%d)", wait, attempt, attempts)
		},
	}
	return &Relay{sender: s, policy: policy, log: log}
}

// Deliver sends raw as a chat message and reports whether it got through.
func (r *Relay) Deliver(ctx context.Context, raw string) bool {
	text := status.FormatMessage(raw, r.log)
	r.log.Debug("Formatted message to send: %s", text)

	err := r.policy.Do(ctx, "telegram send", func(ctx context.Context) error {
		return r.sender.Send(ctx, text)
	})
	if err != nil {
		r.log.Error("Failed to send Telegram message: %v", err)
		return false
	}

	r.log.Info("Sent Telegram message: %s", text)
	return true
}
