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
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/hcloud"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/logging"
	"github.com/raoulx24/hcloud-snapshot-rotator/internal/worker"
)

const scriptName = "snapshot-manager"

type options struct {
	verbose      bool
	configDir    string
	logFile      string
	cli          string
	serverDelay  time.Duration
	pollInterval time.Duration
	maxWait      time.Duration
}

// runnerFactory builds the hcloud runner once configuration is valid.
type runnerFactory func(o *options, log logging.Logger) (hcloud.Runner, error)

func execRunner(o *options, log logging.Logger) (hcloud.Runner, error) {
	path := o.cli
	if path == "" {
		var err error
		if path, err = hcloud.NewLocator(log).Find(); err != nil {
			return nil, err
		}
	}
	return hcloud.NewExecRunner(path, log), nil
}

func newRootCmd(newRunner runnerFactory, clk clock.Clock) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   scriptName + " [config.yaml ...]",
		Short: "Create, rotate and report hcloud server snapshots",
		Long: `Creates a snapshot for every configured server, waits until it is available,
deletes snapshots beyond the retention count and logs a FINAL_STATUS line per server.
Without arguments every .yaml file in the config directory is processed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, o, args, cmd.ErrOrStderr(), newRunner, clk)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.BoolVarP(&o.verbose, "verbose", "v", false, "echo log lines to the console")
	f.StringVar(&o.configDir, "config-dir", config.DefaultPath("configs"), "directory holding server configuration files")
	f.StringVar(&o.logFile, "log-file", config.DefaultPath("logs", "snapshot-manager.log"), "log file, recreated on every run")
	f.StringVar(&o.cli, "cli", "", "path to the hcloud binary (searched when empty)")
	f.DurationVar(&o.serverDelay, "server-delay", worker.DefaultServerDelay, "pause between servers")
	f.DurationVar(&o.pollInterval, "poll-interval", worker.DefaultPollInterval, "snapshot status polling interval")
	f.DurationVar(&o.maxWait, "max-wait", worker.DefaultMaxWait, "maximum wait for a new snapshot to become available")

	return cmd
}

func run(ctx context.Context, o *options, configs []string, console io.Writer, newRunner runnerFactory, clk clock.Clock) error {
	log, err := logging.Open(o.logFile, o.verbose, console)
	if err != nil {
		return err
	}
	defer log.Close()

	servers, err := config.LoadServers(o.configDir, configs)
	if err != nil {
		log.Error("Configuration error: %v", err)
		return fmt.Errorf("loading configuration: %w", err)
	}
	log.Info("Loaded %d server configuration(s) from '%s'.", len(servers), o.configDir)

	runner, err := newRunner(o, log)
	if err != nil {
		log.Error("Cannot run hcloud: %v", err)
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		log.Warn("Cannot determine hostname: %v", err)
		hostname = "unknown"
	}

	w := worker.New(hcloud.NewClient(runner, log), log, clk, worker.Options{
		Script:       scriptName,
		Hostname:     hostname,
		PollInterval: o.pollInterval,
		MaxWait:      o.maxWait,
		ServerDelay:  o.serverDelay,
	})
	w.RunAll(ctx, servers)

	log.Info("Snapshot management completed.")
	return nil
}

func main() {
	if err := newRootCmd(execRunner, clock.Real{}).Execute(); err != nil {
		os.Exit(1)
	}
}
