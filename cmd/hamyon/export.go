package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hamyonapp/hamyon/internal/cli"
	"github.com/hamyonapp/hamyon/internal/config"
	"github.com/hamyonapp/hamyon/internal/service"
	"github.com/hamyonapp/hamyon/internal/stats"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to CSV",
		Long:  `Write a user's ledger to a CSV file, newest first.`,
		RunE:  runExport,
	}

	cmd.Flags().Int64("user", 1, "user id whose transactions to export")
	cmd.Flags().String("output", "transactions.csv", "output file path")
	cmd.Flags().Int("days", 0, "limit to the last N days (0 = everything)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")
	output, _ := cmd.Flags().GetString("output")
	days, _ := cmd.Flags().GetInt("days")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	filter := service.TransactionFilter{}
	if days > 0 {
		since := time.Now().AddDate(0, 0, -days)
		filter.Since = &since
	}

	txs, err := store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}
	if len(txs) == 0 {
		fmt.Println(cli.FormatWarning("Nothing to export."))
		return nil
	}

	bar := progressbar.NewOptions(len(txs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Exporting transactions..."),
	)

	rows := make([]stats.ExportRow, 0, len(txs))
	for i := range txs {
		rows = append(rows, stats.ExportRows(txs[i:i+1], vocab)...)
		_ = bar.Add(1)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := stats.WriteCSV(f, rows); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d transactions to %s", len(rows), output)))
	return nil
}
