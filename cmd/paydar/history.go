package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paydar/paydar/internal/render"
	"github.com/paydar/paydar/internal/store"
)

var (
	flagLimit      int
	flagPruneOlder time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "number of runs to show")
	historyCmd.Flags().DurationVar(&flagPruneOlder, "prune-older-than", 0, "delete runs older than this before listing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if !cfg.History.Enabled {
		fmt.Println("History is disabled in config.")
		return nil
	}

	st, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if flagPruneOlder > 0 {
		if err := st.Prune(flagPruneOlder); err != nil {
			logger.Error("failed to prune history", "error", err)
			os.Exit(1)
		}
	}

	recs, err := st.Recent(flagLimit)
	if err != nil {
		logger.Error("failed to read history", "error", err)
		os.Exit(1)
	}

	if len(recs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("%-17s %-13s %-24s %-16s %-7s %-7s %s\n",
		"WHEN", "KIND", "TITLE", "COMPANY", "TIER", "VALID", "MEDIAN")
	fmt.Println(strings.Repeat("─", 100))

	for _, r := range recs {
		fmt.Printf("%-17s %-13s %-24s %-16s %-7s %-7s %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Kind,
			truncate(r.Title, 24),
			truncate(r.Company, 16),
			r.Tier,
			fmt.Sprintf("%d/%d", r.Valid, r.Requested),
			render.USD(r.Median))
	}

	fmt.Printf("\nTotal: %d runs\n", len(recs))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
