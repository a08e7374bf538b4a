package main

import (
	"context"
	"fmt"

	"github.com/hamyonapp/hamyon/internal/config"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/service"
	"github.com/hamyonapp/hamyon/internal/storage"
)

// initStorage opens the database from config and brings the schema up to
// date.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// loadVocabulary builds the category table, preferring a deployment-specific
// file over the embedded default.
func loadVocabulary(cfg *config.Config) (*nlp.Vocabulary, error) {
	if cfg.Vocabulary.Path != "" {
		return nlp.LoadVocabularyFile(cfg.Vocabulary.Path)
	}
	return nlp.LoadVocabulary()
}
