package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cineload/internal/pipeline"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var limitFlag int
	var concurrencyFlag int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the enrichment-and-load pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			if limitFlag > 0 {
				cfg.Enrichment.APILimit = limitFlag
			}
			if concurrencyFlag > 0 {
				cfg.Enrichment.LookupConcurrency = concurrencyFlag
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := p.Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished in %s\n", result.RunID, result.Elapsed.Round(timeRounding))
			fmt.Fprintf(out, "  catalog: %d movies, %d ratings\n", result.Movies, result.Ratings)
			fmt.Fprintf(out, "  lookups: %d attempted (%d ok, %d failed, %d deferred)\n",
				result.Enrichment.Attempted, result.Enrichment.Succeeded,
				result.Enrichment.Failed, result.Enrichment.Deferred)
			fmt.Fprintf(out, "  loaded:  %d genres, %d movies, %d memberships, %d ratings\n",
				result.Loaded.Genres, result.Loaded.Movies,
				result.Loaded.MovieGenres, result.Loaded.Ratings)
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Override the per-run lookup limit")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "Override the lookup concurrency bound")
	return cmd
}
