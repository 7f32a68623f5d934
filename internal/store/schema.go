package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		role            TEXT NOT NULL DEFAULT 'candidate' CHECK (role IN ('candidate', 'company')),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS challenges (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		company_id  BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id           BIGSERIAL PRIMARY KEY,
		content      TEXT NOT NULL,
		timestamp    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		candidate_id BIGINT NOT NULL REFERENCES users(id),
		challenge_id BIGINT NOT NULL REFERENCES challenges(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_challenges_company_id ON challenges(company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_challenge_id ON submissions(challenge_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_candidate_id ON submissions(candidate_id)`,
}

// Migrate creates the tables and indexes when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
