package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "apply",
	Short: "Business discovery and application outreach pipeline",
	Long:  "Discovers businesses via place search, scrapes contact emails from their websites, dedups into a workbook, and drives a one-shot application email campaign.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
