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
	"github.com/paydar/paydar/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Fill in a request interactively",
	Long:  "Opens a form for the role details, then runs the chosen estimate.",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	requireKey(cfg, logger)

	defaults := tui.Form{
		Request: model.Request{
			Tier:    cfg.Defaults.Tier,
			Samples: cfg.Defaults.Samples,
		},
		Kind: model.KindDistribution,
	}
	form, ok, err := tui.RunForm(defaults)
	if err != nil {
		logger.Error("form failed", "error", err)
		os.Exit(1)
	}
	if !ok {
		return nil
	}

	st, closeStore := openStore(cfg, logger)
	defer closeStore()

	s := sampler.New(newCompleter(cfg), logger)
	bar := startProgress(s, form.Request.Samples)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if form.Kind == model.KindSpot {
		est, warnings, err := s.Spot(ctx, form.Request)
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

		saveRun(st, spotRecord(form.Request, est), logger)
		if err := render.Spot(os.Stdout, est); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		return nil
	}

	d, warnings, err := s.Distribution(ctx, form.Request)
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

	saveRun(st, distributionRecord(form.Request, d), logger)
	if err := render.Distribution(os.Stdout, d); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	return nil
}
