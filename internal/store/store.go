// Package store implements the platform repositories on top of Postgres.
package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"hiring-platform/internal/models"
)

var (
	ErrNotFound       = errors.New("NOT_FOUND")
	ErrDuplicateEmail = errors.New("DUPLICATE_EMAIL")
)

const uniqueViolation = "23505"

// Store satisfies the user, challenge and submission repositories.
type Store struct {
	db *sql.DB
}

var (
	_ models.UserRepository       = (*Store)(nil)
	_ models.ChallengeRepository  = (*Store)(nil)
	_ models.SubmissionRepository = (*Store)(nil)
)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// likePattern escapes LIKE metacharacters and wraps q for a substring match.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
