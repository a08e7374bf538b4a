package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: users and transactions",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					telegram_id INTEGER PRIMARY KEY,
					name TEXT NOT NULL DEFAULT '',
					language TEXT NOT NULL DEFAULT 'uz',
					balance INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					draft_id TEXT UNIQUE NOT NULL,
					user_telegram_id INTEGER NOT NULL,
					type TEXT NOT NULL,
					category TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					amount INTEGER NOT NULL,
					source TEXT NOT NULL DEFAULT 'text',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_telegram_id) REFERENCES users(telegram_id)
				)`,
				`CREATE INDEX idx_transactions_user ON transactions(user_telegram_id)`,
				`CREATE INDEX idx_transactions_created ON transactions(created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add limits, goals, and debts",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS limits (
					user_telegram_id INTEGER NOT NULL,
					category TEXT NOT NULL,
					monthly INTEGER NOT NULL,
					alert_percent INTEGER NOT NULL DEFAULT 90,
					PRIMARY KEY (user_telegram_id, category),
					FOREIGN KEY (user_telegram_id) REFERENCES users(telegram_id)
				)`,

				`CREATE TABLE IF NOT EXISTS goals (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_telegram_id INTEGER NOT NULL,
					name TEXT NOT NULL,
					target INTEGER NOT NULL,
					saved INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_telegram_id) REFERENCES users(telegram_id)
				)`,

				`CREATE TABLE IF NOT EXISTS debts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					draft_id TEXT UNIQUE,
					user_telegram_id INTEGER NOT NULL,
					person TEXT NOT NULL,
					direction TEXT NOT NULL,
					amount INTEGER NOT NULL,
					settled INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_telegram_id) REFERENCES users(telegram_id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index category lookups for limit checks",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_user_category
				ON transactions(user_telegram_id, category)`)
			return err
		},
	},
}

// Migrate applies all pending migrations inside transactions.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
