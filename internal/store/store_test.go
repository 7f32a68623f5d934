package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "hiring-platform/internal/common/errors"
	"hiring-platform/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

// ==========================
// Users
// ==========================

func TestCreateUser(t *testing.T) {
	s, mock := setupMockDB(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@example.com", "hash", "company").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	user, err := s.CreateUser(context.Background(), "a@example.com", "hash", models.RoleCompany)

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, models.RoleCompany, user.Role)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@example.com", "hash", "candidate").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := s.CreateUser(context.Background(), "a@example.com", "hash", models.RoleCandidate)

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, email, hashed_password, role, created_at FROM users WHERE email").
					WithArgs("a@example.com").
					WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "role", "created_at"}).
						AddRow(3, "a@example.com", "hash", "candidate", time.Now()))
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM users WHERE email").
					WithArgs("a@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := setupMockDB(t)
			tt.setup(mock)

			user, err := s.GetUserByEmail(context.Background(), "a@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), user.ID)
			assert.Equal(t, models.RoleCandidate, user.Role)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetUserByEmail_DatabaseError(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM users").WillReturnError(errors.New("connection reset"))

	_, err := s.GetUserByEmail(context.Background(), "a@example.com")

	stdErr, ok := commonerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeDatabaseError, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Challenges
// ==========================

func TestCreateChallenge(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectQuery("INSERT INTO challenges").
		WithArgs("Build a parser", "needs regex", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	ch, err := s.CreateChallenge(context.Background(), 1, models.ChallengeCreate{Title: "Build a parser", Description: "needs regex"})

	require.NoError(t, err)
	assert.Equal(t, int64(11), ch.ID)
	assert.Equal(t, int64(1), ch.CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChallenge_NotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM challenges c JOIN users u").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := s.GetChallenge(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListChallenges(t *testing.T) {
	cols := []string{"id", "title", "description", "company_id", "email"}

	t.Run("all", func(t *testing.T) {
		s, mock := setupMockDB(t)
		mock.ExpectQuery("FROM challenges c JOIN users u ON u.id = c.company_id ORDER BY c.id").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(1, "A", "a", 10, "acme@example.com").
				AddRow(2, "B", "b", 11, "globex@example.com"))

		out, err := s.ListChallenges(context.Background(), "")

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "globex@example.com", out[1].CompanyEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered", func(t *testing.T) {
		s, mock := setupMockDB(t)
		mock.ExpectQuery("ILIKE").
			WithArgs(`%50\%\_off%`).
			WillReturnRows(sqlmock.NewRows(cols))

		out, err := s.ListChallenges(context.Background(), "50%_off")

		require.NoError(t, err)
		assert.Empty(t, out)
		assert.NotNil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetCompanyChallenge_WrongOwner(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("WHERE id = \\$1 AND company_id = \\$2").
		WithArgs(int64(5), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetCompanyChallenge(context.Background(), 5, 2)

	assert.ErrorIs(t, err, ErrNotFound)
}

// ==========================
// Submissions
// ==========================

func TestCreateSubmission(t *testing.T) {
	s, mock := setupMockDB(t)

	mock.ExpectQuery("INSERT INTO submissions").
		WithArgs("my answer", sqlmock.AnyArg(), int64(4), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	sub, err := s.CreateSubmission(context.Background(), 4, models.SubmissionCreate{Content: "my answer", ChallengeID: 9})

	require.NoError(t, err)
	assert.Equal(t, int64(21), sub.ID)
	assert.Equal(t, time.UTC, sub.Timestamp.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSubmissionsByCandidate(t *testing.T) {
	s, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("WHERE s.candidate_id = \\$1").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "timestamp", "candidate_id", "challenge_id", "title"}).
			AddRow(1, "answer", now, 4, 9, "Build a parser"))

	out, err := s.ListSubmissionsByCandidate(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Build a parser", out[0].ChallengeTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSubmissionsOutsideCompany(t *testing.T) {
	s, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("JOIN challenges c ON c.id = s.challenge_id WHERE c.company_id <> \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "timestamp", "candidate_id", "challenge_id"}).
			AddRow(5, "parsing regex", now, 3, 8))

	out, err := s.ListSubmissionsOutsideCompany(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(8), out[0].ChallengeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCandidateSubmission_NotFound(t *testing.T) {
	s, mock := setupMockDB(t)
	mock.ExpectQuery("FROM submissions WHERE id = \\$1 AND candidate_id = \\$2").
		WithArgs(int64(5), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetCandidateSubmission(context.Background(), 5, 2)

	assert.ErrorIs(t, err, ErrNotFound)
}

// ==========================
// Schema
// ==========================

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schemaStatements {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 1")
}
