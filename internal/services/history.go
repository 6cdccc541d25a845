package services

import (
	"context"
	"database/sql"
	"fmt"

	"study-buddy/internal/models"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// HistoryService keeps a log of generation outcomes. Artifact content is
// never written.
type HistoryService struct {
	db *sql.DB
}

func NewHistoryService(db *sql.DB) *HistoryService {
	return &HistoryService{db: db}
}

func (s *HistoryService) Record(ctx context.Context, g models.Generation) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (artifact_id, mode, item_count, strategy, backend, status, error_kind,
		                         input_length, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		g.ArtifactID,
		string(g.Mode),
		g.Count,
		string(g.Strategy),
		g.Backend,
		g.Status,
		g.ErrorKind,
		g.InputLength,
		g.DurationMS,
		g.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// HistoryStats summarises the log for the stats endpoint.
type HistoryStats struct {
	Total    int            `json:"total"`
	ByMode   map[string]int `json:"byMode"`
	ByStatus map[string]int `json:"byStatus"`
	ByKind   map[string]int `json:"byErrorKind"`
}

func (s *HistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{
		ByMode:   make(map[string]int),
		ByStatus: make(map[string]int),
		ByKind:   make(map[string]int),
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations;").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count generations: %w", err)
	}

	groups := []struct {
		column string
		into   map[string]int
	}{
		{"mode", stats.ByMode},
		{"status", stats.ByStatus},
		{"error_kind", stats.ByKind},
	}
	for _, g := range groups {
		if err := s.countBy(ctx, g.column, g.into); err != nil {
			return nil, err
		}
	}
	delete(stats.ByKind, "")
	return stats, nil
}

func (s *HistoryService) countBy(ctx context.Context, column string, into map[string]int) error {
	// column comes from the fixed list in Stats, never from input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s, COUNT(*) FROM generations GROUP BY %s;", column, column))
	if err != nil {
		return fmt.Errorf("group generations by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan %s group: %w", column, err)
		}
		into[key] = n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s groups: %w", column, err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]models.Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, artifact_id, mode, item_count, strategy, backend, status, error_kind,
		       input_length, duration_ms, created_at
		FROM generations
		ORDER BY created_at DESC, id DESC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	out := []models.Generation{}
	for rows.Next() {
		var g models.Generation
		if err := rows.Scan(
			&g.ID,
			&g.ArtifactID,
			&g.Mode,
			&g.Count,
			&g.Strategy,
			&g.Backend,
			&g.Status,
			&g.ErrorKind,
			&g.InputLength,
			&g.DurationMS,
			&g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return out, nil
}
