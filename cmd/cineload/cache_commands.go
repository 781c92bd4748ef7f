package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cineload/internal/ledger"
)

func newCacheCommand(configFlag *string) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the enrichment cache ledger",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(configFlag))
	cacheCmd.AddCommand(newCacheListCommand(configFlag))
	cacheCmd.AddCommand(newCachePurgeCommand(configFlag))

	return cacheCmd
}

func openCacheLedger(configFlag *string) (*ledger.Ledger, error) {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}
	l, err := ledger.Open(cfg.Paths.CacheFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open cache ledger: %w", err)
	}
	return l, nil
}

func newCacheStatsCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show outcome counts recorded in the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openCacheLedger(configFlag)
			if err != nil {
				return err
			}

			success, failed := 0, 0
			for _, entry := range l.Entries() {
				switch entry.Status {
				case ledger.StatusSuccess:
					success++
				case ledger.StatusFailed:
					failed++
				}
			}

			rows := [][]string{
				{strconv.Itoa(success), ledger.StatusSuccess},
				{strconv.Itoa(failed), ledger.StatusFailed},
				{strconv.Itoa(l.Len()), "total"},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Count", "Status"}, rows))
			return nil
		},
	}
}

func newCacheListCommand(configFlag *string) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded enrichment outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if statusFlag != "" && statusFlag != ledger.StatusSuccess && statusFlag != ledger.StatusFailed {
				return fmt.Errorf("invalid --status %q (use %s or %s)", statusFlag, ledger.StatusSuccess, ledger.StatusFailed)
			}

			l, err := openCacheLedger(configFlag)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, entry := range l.Entries() {
				if statusFlag != "" && entry.Status != statusFlag {
					continue
				}
				rows = append(rows, []string{
					strconv.FormatInt(entry.MovieID, 10),
					entry.Title,
					yearLabel(entry.Year),
					entry.Status,
					entry.IMDBID,
				})
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching ledger entries.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Movie", "Title", "Year", "Status", "IMDb"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by outcome status (success or failed)")
	return cmd
}

func newCachePurgeCommand(configFlag *string) *cobra.Command {
	var failedFlag bool

	cmd := &cobra.Command{
		Use:   "purge [movieId]",
		Short: "Remove ledger entries so they are retried on the next run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if failedFlag == (len(args) == 1) {
				return fmt.Errorf("specify either a movie id or --failed")
			}

			l, err := openCacheLedger(configFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if failedFlag {
				removed, err := l.RemoveFailed()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d failed entries.\n", removed)
				return nil
			}

			movieID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid movie id %q: %w", args[0], err)
			}
			if err := l.Remove(movieID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed entry for movie %d.\n", movieID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&failedFlag, "failed", false, "Remove every failed-status entry")
	return cmd
}

func yearLabel(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
