package storage

import (
	"context"
	"fmt"

	"github.com/hamyonapp/hamyon/internal/model"
)

// ListGoals returns the user's savings goals, oldest first.
func (s *SQLiteStorage) ListGoals(ctx context.Context, telegramID int64) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_telegram_id, name, target, saved, created_at
		 FROM goals WHERE user_telegram_id = ? ORDER BY created_at, id`,
		telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Goal
	for rows.Next() {
		var g model.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Saved, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AddGoal records a new savings goal.
func (s *SQLiteStorage) AddGoal(ctx context.Context, goal model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoal(&goal); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (user_telegram_id, name, target, saved) VALUES (?, ?, ?, ?)`,
		goal.UserID, goal.Name, goal.Target, goal.Saved)
	if err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}
	return nil
}
