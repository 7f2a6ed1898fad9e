package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Taiyaki-maker/Apply-Automation/internal/pipeline"
	"github.com/Taiyaki-maker/Apply-Automation/internal/scrape"
	"github.com/Taiyaki-maker/Apply-Automation/internal/store"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/places"
)

var (
	discoverQuery      string
	discoverMaxResults int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover businesses, enrich with contact emails, merge into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Flags override config.
		if discoverQuery != "" {
			cfg.Discovery.Query = discoverQuery
		}
		if cmd.Flags().Changed("max-results") {
			cfg.Discovery.MaxResults = discoverMaxResults
		}
		query := cfg.Discovery.Query
		maxResults := cfg.Discovery.MaxResults

		if err := cfg.Validate("discover"); err != nil {
			return err
		}

		log := zap.L().With(
			zap.String("command", "discover"),
			zap.String("run_id", uuid.NewString()),
		)

		var opts []places.Option
		if cfg.Places.BaseURL != "" {
			opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
		}
		if cfg.Places.RateLimit > 0 {
			opts = append(opts, places.WithRateLimit(cfg.Places.RateLimit))
		}
		client := places.NewClient(cfg.Places.Key, opts...)

		st := store.New(cfg.Store.Path, log)
		discoverer := pipeline.NewDiscoverer(client, cfg.Discovery.PageDelay(), log)
		enricher := pipeline.NewEnricher(client, scrape.NewFetcher(cfg.Discovery.FetchTimeout()), log)
		runner := pipeline.NewRunner(discoverer, enricher, st, log)

		log.Info("starting discovery run",
			zap.String("query", query),
			zap.Int("max_results", maxResults),
			zap.String("store", cfg.Store.Path),
		)

		report, err := runner.Run(ctx, query, maxResults)
		if err != nil {
			return eris.Wrap(err, "discover")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverQuery, "query", "", "search query (e.g. \"Cafe near Dandenong\"); overrides config")
	discoverCmd.Flags().IntVar(&discoverMaxResults, "max-results", 0, "cap on discovered places; overrides config")
	rootCmd.AddCommand(discoverCmd)
}
