package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	SessionCode string    `json:"sessionCode"`
	WinnerID    string    `json:"winnerId,omitempty"` // empty when nobody won
	WinnerName  string    `json:"winnerName,omitempty"`
	Players     []string  `json:"players"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// ResultRepository stores match outcomes.
type ResultRepository struct {
	db *DB
}

// NewResultRepository creates a repository backed by db.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// RecordResult appends a finished match.
func (r *ResultRepository) RecordResult(ctx context.Context, result MatchResult) error {
	var winnerID, winnerName *string
	if result.WinnerID != "" {
		winnerID = &result.WinnerID
		winnerName = &result.WinnerName
	}
	players := result.Players
	if players == nil {
		players = []string{}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO match_results (session_code, winner_id, winner_name, players, finished_at)
		VALUES ($1, $2, $3, $4, $5)`,
		result.SessionCode, winnerID, winnerName, players, result.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert match result for %s: %w", result.SessionCode, err)
	}

	if r.db.logger != nil {
		r.db.logger.Debug("match result recorded",
			zap.String("session", result.SessionCode),
			zap.String("winner", result.WinnerID),
		)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]MatchResult, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT session_code, COALESCE(winner_id, ''), COALESCE(winner_name, ''), players, finished_at
		FROM match_results
		ORDER BY finished_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query match results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MatchResult, error) {
		var m MatchResult
		err := row.Scan(&m.SessionCode, &m.WinnerID, &m.WinnerName, &m.Players, &m.FinishedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan match results: %w", err)
	}
	return results, nil
}
