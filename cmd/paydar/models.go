package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paydar/paydar/internal/model"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List model tiers",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%-10s %-30s\n", "TIER", "MODEL")
	fmt.Println(strings.Repeat("─", 50))
	for _, t := range model.Tiers() {
		mark := ""
		if t == cfg.Defaults.Tier {
			mark = "(default)"
		}
		fmt.Printf("%-10s %-30s %s\n", t, t.Model(), mark)
	}
	return nil
}
