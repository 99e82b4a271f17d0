package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paydar/paydar/internal/model"
	"github.com/paydar/paydar/internal/sampler"
	"github.com/paydar/paydar/internal/scheduler"
)

var flagInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run an estimate on an interval",
	Long:  "Runs the same distribution estimate on a schedule, records each run and notifies on completion; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addRequestFlags(watchCmd)
	watchCmd.Flags().DurationVar(&flagInterval, "interval", 0, "time between runs (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	requireKey(cfg, logger)

	req, err := buildRequest(cfg)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	st, closeStore := openStore(cfg, logger)
	defer closeStore()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)
	s := sampler.New(newCompleter(cfg), logger)

	interval := cfg.Watch.Interval
	if flagInterval > 0 {
		interval = flagInterval
	}

	run := func(ctx context.Context) (model.RunRecord, error) {
		d, warnings, err := s.Distribution(ctx, req)
		for _, w := range warnings {
			logger.Warn(w)
		}
		if err != nil {
			return model.RunRecord{}, err
		}

		rec := distributionRecord(req, d)
		saveRun(st, rec, logger)
		if err := n.Notify(rec); err != nil {
			logger.Warn("notify failed", "error", err)
		}
		return rec, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := scheduler.NewWatcher(run, interval, logger)
	if err := w.Run(ctx); err != nil {
		logger.Error("watch error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
