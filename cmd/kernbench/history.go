package main

import (
	"errors"
	"fmt"

	"kernbench/internal/config"
	"kernbench/internal/history"
	"kernbench/internal/ui"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [kernel]",
	Short: "List recorded results, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", historyLimit)
		}
		cfg := config.FromViper()
		if !cfg.HistoryEnabled {
			return errors.New("history is disabled (history.enabled: false)")
		}

		var kernel string
		if len(args) == 1 {
			kernel = args[0]
		}

		store, err := newHistoryFunc(history.StoreConfig{Type: cfg.HistoryType, ConnectionString: cfg.HistoryDSN})
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Query(cmd.Context(), kernel, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to query history: %w", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).History(entries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show")
}
