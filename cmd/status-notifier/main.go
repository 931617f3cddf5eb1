package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/clock"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/config"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/notify"
)

type options struct {
	verbose    bool
	delay      int
	logFile    string
	ownLog     string
	retries    int
	retryDelay time.Duration
	envFile    string
}

func newRootCmd(clk clock.Clock) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "status-notifier",
		Short: "Send FINAL_STATUS lines from the snapshot log to Telegram",
		Long: `Scans the snapshot manager log once and posts every FINAL_STATUS entry to a
Telegram chat. Credentials come from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID,
optionally loaded from an env file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.LoadNotifier(o.envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("retries") {
				cfg.Retries = o.retries
			}
			if cmd.Flags().Changed("retry-delay") {
				cfg.RetryDelay = o.retryDelay
			}
			cfg.MessageDelay = time.Duration(o.delay) * time.Second

			return run(ctx, o, cfg, cmd.ErrOrStderr(), clk)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.BoolVarP(&o.verbose, "verbose", "v", false, "echo log lines to the console")
	f.IntVarP(&o.delay, "delay", "d", 10, "seconds to wait between messages")
	f.StringVar(&o.logFile, "log-file", config.DefaultPath("logs", "snapshot-manager.log"), "snapshot manager log to scan")
	f.StringVar(&o.ownLog, "own-log", config.DefaultPath("logs", "status-notifier.log"), "notifier log file, recreated on every run")
	f.IntVar(&o.retries, "retries", 3, "send attempts per message (overrides TELEGRAM_RETRIES)")
	f.DurationVar(&o.retryDelay, "retry-delay", 5*time.Second, "wait between send attempts (overrides TELEGRAM_RETRY_DELAY)")
	f.StringVar(&o.envFile, "env-file", config.DefaultPath(".env"), "env file with Telegram credentials")

	return cmd
}

func run(ctx context.Context, o *options, cfg *config.Notifier, console io.Writer, clk clock.Clock) error {
	if cfg.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", cfg.Retries)
	}
	if cfg.MessageDelay < 0 {
		return fmt.Errorf("delay must not be negative")
	}

	log, err := logging.Open(o.ownLog, o.verbose, console)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting status notifier for '%s'.", o.logFile)

	tg := notify.NewTelegram(cfg.APIURL, cfg.BotToken, cfg.ChatID, cfg.Timeout)
	relay := notify.NewRelay(tg, cfg.Retries, cfg.RetryDelay, clk, log)
	sum := notify.New(relay, cfg.MessageDelay, clk, log).ProcessFile(ctx, o.logFile)

	log.Info("Notifier finished: %d found, %d sent, %d failed, %d skipped.",
		sum.Found, sum.Sent, sum.Failed, sum.Skipped)
	return nil
}

func main() {
	if err := newRootCmd(clock.Real{}).Execute(); err != nil {
		os.Exit(1)
	}
}
