package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		seq BIGSERIAL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		options TEXT[] NOT NULL,
		correct_option INTEGER NOT NULL,
		marks INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS tests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES categories(id),
		total_questions INTEGER NOT NULL,
		total_marks INTEGER NOT NULL,
		passing_marks INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		question_ids TEXT[] NOT NULL DEFAULT '{}',
		instructions TEXT[] NOT NULL DEFAULT '{}',
		seq BIGSERIAL
	)`,
	`CREATE INDEX IF NOT EXISTS tests_category_idx ON tests (category_id)`,
	`CREATE TABLE IF NOT EXISTS test_results (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		test_id TEXT NOT NULL REFERENCES tests(id),
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		wrong_answers INTEGER NOT NULL,
		skipped_answers INTEGER NOT NULL,
		answers JSONB NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		seq BIGSERIAL
	)`,
	`CREATE INDEX IF NOT EXISTS test_results_user_idx ON test_results (user_id, completed_at DESC)`,
}

// initSchema создаёт таблицы, если их ещё нет
func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}

	return nil
}
