package matchsuggestions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hiring-platform/internal/common/config"
	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type MockSuggester struct {
	mock.Mock
}

func (m *MockSuggester) Suggest(ctx context.Context, companyID int64) ([]models.MatchSuggestion, error) {
	args := m.Called(ctx, companyID)
	if s := args.Get(0); s != nil {
		return s.([]models.MatchSuggestion), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestHandler(t *testing.T, s Suggester) *Handler {
	h := NewHandler(&Config{Timeout: time.Second, MaxRetries: 3}, s, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

// ==========================
// Input parsing
// ==========================

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int64
		wantErr bool
	}{
		{name: "valid", body: `{"companyId": 7}`, want: 7},
		{name: "extra process variables", body: `{"companyId": 3, "processName": "hiring"}`, want: 3},
		{name: "missing company", body: `{}`, wantErr: true},
		{name: "zero company", body: `{"companyId": 0}`, wantErr: true},
		{name: "string company", body: `{"companyId": "7"}`, wantErr: true},
		{name: "malformed", body: `{"companyId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseInput([]byte(tt.body))
			if tt.wantErr {
				stdErr, ok := errors.As(err)
				require.True(t, ok)
				assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
				assert.False(t, stdErr.Retryable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input.CompanyID)
		})
	}
}

// ==========================
// Execute
// ==========================

func TestExecute_ReturnsSuggestions(t *testing.T) {
	s := new(MockSuggester)
	suggestions := []models.MatchSuggestion{
		{ChallengeID: 1, ChallengeTitle: "Parser", SubmissionID: 9, MatchScore: 0.85, MatchReason: "Matching skills: parsing"},
	}
	s.On("Suggest", mock.Anything, int64(4)).Return(suggestions, nil)

	out, err := newTestHandler(t, s).Execute(context.Background(), &Input{CompanyID: 4})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, suggestions, out.Suggestions)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), out.GeneratedAt)
	s.AssertExpectations(t)
}

func TestExecute_EmptyResult(t *testing.T) {
	s := new(MockSuggester)
	s.On("Suggest", mock.Anything, int64(4)).Return([]models.MatchSuggestion{}, nil)

	out, err := newTestHandler(t, s).Execute(context.Background(), &Input{CompanyID: 4})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Suggestions)
}

func TestExecute_PropagatesDatabaseError(t *testing.T) {
	s := new(MockSuggester)
	s.On("Suggest", mock.Anything, int64(4)).
		Return(nil, errors.NewDatabaseError("list challenges", fmt.Errorf("connection reset")))

	_, err := newTestHandler(t, s).Execute(context.Background(), &Input{CompanyID: 4})

	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeDatabaseError, stdErr.Code)
	assert.Equal(t, 3, errors.GetRetryCount(stdErr.Code))
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 5000, MaxRetries: 2},
	}})

	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestHandler_RetryBudgetFollowsConfig(t *testing.T) {
	dbErr := errors.NewDatabaseError("list challenges", fmt.Errorf("connection reset"))

	capped := NewHandler(&Config{MaxRetries: 1}, new(MockSuggester), logger.NewTestLogger(t))
	assert.Equal(t, 1, capped.errorHandler.Retries(dbErr))

	defaults := NewHandler(&Config{}, new(MockSuggester), logger.NewTestLogger(t))
	assert.Equal(t, 3, defaults.errorHandler.Retries(dbErr))

	_, err := ParseInput([]byte(`{}`))
	assert.Equal(t, 0, capped.errorHandler.Retries(err))
}
