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

var spotCmd = &cobra.Command{
	Use:   "spot",
	Short: "Estimate a single salary figure",
	Long:  "Queries Claude repeatedly for one salary figure per reply, takes the median and draws a histogram.",
	RunE:  runSpot,
}

func init() {
	rootCmd.AddCommand(spotCmd)
	addRequestFlags(spotCmd)
}

func runSpot(cmd *cobra.Command, args []string) error {
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

	est, warnings, err := s.Spot(ctx, req)
	if bar != nil {
		bar.Finish()
	}
	printWarnings(warnings)
	if err != nil {
		if errors.Is(err, model.ErrNoValidSamples) {
			pterm.Error.Println("Failed to retrieve valid salary data.")
		} else {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}

	saveRun(st, spotRecord(req, est), logger)

	if err := render.Spot(os.Stdout, est); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	return nil
}
