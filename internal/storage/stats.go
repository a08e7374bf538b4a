package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hamyonapp/hamyon/internal/service"
)

// TodayStats aggregates a user's activity since local midnight.
func (s *SQLiteStorage) TodayStats(ctx context.Context, telegramID int64) (*service.PeriodStats, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.statsSince(ctx, telegramID, midnight)
	if err != nil {
		return nil, err
	}
	stats.Days = 1
	return stats, nil
}

// PeriodStats aggregates the user's last N days.
func (s *SQLiteStorage) PeriodStats(ctx context.Context, telegramID int64, days int) (*service.PeriodStats, error) {
	if days <= 0 {
		return nil, fmt.Errorf("period days must be positive, got %d", days)
	}
	stats, err := s.statsSince(ctx, telegramID, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	stats.Days = days
	return stats, nil
}

func (s *SQLiteStorage) statsSince(ctx context.Context, telegramID int64, since time.Time) (*service.PeriodStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(telegramID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, category FROM transactions
		 WHERE user_telegram_id = ? AND created_at >= ?`,
		telegramID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &service.PeriodStats{ByCategory: make(map[string]int64)}
	for rows.Next() {
		var (
			amount   int64
			category string
		)
		if err := rows.Scan(&amount, &category); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.Count++
		if amount < 0 {
			stats.Expenses += -amount
			stats.ByCategory[category] += -amount
		} else {
			stats.Income += amount
		}
	}
	return stats, rows.Err()
}

// CategorySpentThisMonth sums one category's expenses since the first of the
// month, for limit checks after a commit.
func (s *SQLiteStorage) CategorySpentThisMonth(ctx context.Context, telegramID int64, category string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateUserID(telegramID); err != nil {
		return 0, err
	}
	if err := validateString(category, "category"); err != nil {
		return 0, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var spent int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(-amount), 0) FROM transactions
		 WHERE user_telegram_id = ? AND category = ? AND amount < 0 AND created_at >= ?`,
		telegramID, category, monthStart.UTC()).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("failed to sum category spending: %w", err)
	}
	return spent, nil
}
