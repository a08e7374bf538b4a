package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamyonapp/hamyon/internal/cli"
	"github.com/hamyonapp/hamyon/internal/config"
	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/nlp"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Track expenses from your terminal",
		Long: `Start an interactive session against the local database. The same
quick-entry parser and confirmation flow as the Telegram bot, without
the Telegram.`,
		RunE: runChat,
	}

	cmd.Flags().Int64("user", 1, "local user id to record entries under")

	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetInt64("user")

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

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, true)

	engine := draft.NewEngine(draft.NewStore(), store, vocab)
	chat := cli.NewChat(engine, nlp.NewParser(vocab), store, os.Stdin, os.Stdout, userID)
	return chat.Run(ctx)
}
