package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hamyonapp/hamyon/internal/api"
	"github.com/hamyonapp/hamyon/internal/bot"
	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/config"
	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/receipt"
	"github.com/hamyonapp/hamyon/internal/speech"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the HTTP API",
		Long: `Start the full service: long-polling Telegram bot, companion
HTTP API, and Prometheus metrics, all sharing one database.`,
		RunE: runServe,
	}

	cmd.Flags().String("token", "", "Telegram bot token (overrides config)")
	_ = viper.BindPFlag("telegram.token", cmd.Flags().Lookup("token"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram token (set HAMYON_TELEGRAM_TOKEN or telegram.token)", common.ErrMissingConfig)
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
	parser := nlp.NewParser(vocab)
	engine := draft.NewEngine(draft.NewStore(), store, vocab)

	transcriber, err := buildTranscriber(cfg)
	if err != nil {
		return err
	}
	extractor, err := buildExtractor(cfg)
	if err != nil {
		return err
	}

	tgBot, err := bot.New(bot.Config{
		Token:     cfg.Telegram.Token,
		Debug:     cfg.Telegram.Debug,
		WebAppURL: cfg.Telegram.WebAppURL,
	}, engine, parser, store, transcriber, extractor)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	server := api.New(api.Config{Host: cfg.API.Host, Port: cfg.API.Port}, store)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tgBot.Start(ctx)
	})
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down http server")
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildTranscriber wires voice input when a speech endpoint is configured;
// otherwise voice messages get a polite "not available".
func buildTranscriber(cfg *config.Config) (speech.Transcriber, error) {
	if cfg.Speech.BaseURL == "" {
		return speech.Disabled{}, nil
	}
	client, err := speech.NewClient(speech.Config{
		BaseURL: cfg.Speech.BaseURL,
		Model:   cfg.Speech.Model,
		APIKey:  cfg.Speech.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return client, nil
}

func buildExtractor(cfg *config.Config) (receipt.Extractor, error) {
	if cfg.Receipt.URL == "" {
		return receipt.Disabled{}, nil
	}
	client, err := receipt.NewClient(receipt.Config{URL: cfg.Receipt.URL, APIKey: cfg.Receipt.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt client: %w", err)
	}
	return client, nil
}
