package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/paydar/paydar/internal/model"
	"github.com/paydar/paydar/internal/render"
	"github.com/paydar/paydar/internal/sampler"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a salary distribution",
	Long:  "Queries Claude repeatedly for percentile salaries, averages the replies and draws the fitted curve.",
	RunE:  runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	addRequestFlags(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
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

	s := sampler.New(newCompleter(cfg), logger)
	bar := startProgress(s, req.Samples)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, warnings, err := s.Distribution(ctx, req)
	if bar != nil {
		bar.Finish()
	}
	printWarnings(warnings)
	if err != nil {
		if errors.Is(err, model.ErrNoValidSamples) {
			pterm.Error.Println("Failed to retrieve valid quantile data.")
		} else {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}

	saveRun(st, distributionRecord(req, d), logger)

	if err := render.Distribution(os.Stdout, d); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	return nil
}
