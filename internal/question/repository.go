// Package question holds the question bank and the app-level stat counters.
package question

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/pkarhu/deduction-api/internal/domain"
)

// Repository is the read/write contract over the question bank.
type Repository interface {
	// GetByStage returns the first question of the stage, or nil.
	GetByStage(ctx context.Context, stage int) (*domain.Question, error)
	// Import bulk-inserts questions, optionally clearing the bank first.
	Import(ctx context.Context, questions []domain.Question, clear bool) error
	// IncrementStat adds delta to an app-level counter, creating it at zero.
	IncrementStat(ctx context.Context, key string, delta int64) error
	Close() error
}

type PgRepository struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		stage INTEGER NOT NULL,
		prompt TEXT NOT NULL,
		answer TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stats (
		key TEXT PRIMARY KEY,
		value BIGINT NOT NULL DEFAULT 0
	)`,
}

func NewPgRepository(databaseURL string) (*PgRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	// idempotent DDL, safe to run on every start
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &PgRepository{db: db}, nil
}

func (r *PgRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *PgRepository) GetByStage(ctx context.Context, stage int) (*domain.Question, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, stage, prompt, answer FROM questions WHERE stage = $1 ORDER BY id LIMIT 1`,
		stage,
	)
	var q domain.Question
	if err := row.Scan(&q.ID, &q.Stage, &q.Prompt, &q.Answer); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *PgRepository) Import(ctx context.Context, questions []domain.Question, clear bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if clear {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
			return err
		}
	}
	for _, q := range questions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, stage, prompt, answer) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET
				stage = EXCLUDED.stage,
				prompt = EXCLUDED.prompt,
				answer = EXCLUDED.answer`,
			q.ID, q.Stage, q.Prompt, q.Answer,
		); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

func (r *PgRepository) IncrementStat(ctx context.Context, key string, delta int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stats (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = stats.value + EXCLUDED.value`,
		key, delta,
	)
	return err
}
