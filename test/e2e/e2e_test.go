// Package e2e drives the HTTP API against a live Postgres. Set
// E2E_DATABASE_URL to run it; it skips otherwise.
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-platform/internal/api"
	"hiring-platform/internal/common/auth"
	"hiring-platform/internal/common/config"
	"hiring-platform/internal/common/database"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/matching/suggest"
	"hiring-platform/internal/matching/terms"
	"hiring-platform/internal/models"
	"hiring-platform/internal/store"
)

type client struct {
	t    *testing.T
	base string
}

func (c *client) do(method, path, token, contentType string, body io.Reader) (int, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, data
}

func (c *client) postJSON(path, token string, payload interface{}) (int, []byte) {
	c.t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(c.t, err)
	return c.do(http.MethodPost, path, token, "application/json", strings.NewReader(string(data)))
}

func (c *client) registerAndLogin(email, role string) string {
	c.t.Helper()
	status, body := c.postJSON("/auth/register", "", map[string]string{
		"email": email, "password": "secret-password", "role": role,
	})
	require.Equal(c.t, http.StatusCreated, status, string(body))

	form := url.Values{"username": {email}, "password": {"secret-password"}}
	status, body = c.do(http.MethodPost, "/auth/login", "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.Equal(c.t, http.StatusOK, status, string(body))

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(c.t, json.Unmarshal(body, &token))
	assert.Equal(c.t, "bearer", token.TokenType)
	return token.AccessToken
}

func newServer(t *testing.T) *httptest.Server {
	dsn := os.Getenv("E2E_DATABASE_URL")
	if dsn == "" {
		t.Skip("E2E_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(ctx, config.PostgresConfig{URL: dsn, MaxConnections: 5, MaxIdle: 2})
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { pg.Close() })
	require.NoError(t, store.Migrate(ctx, pg.DB))

	cfg := &config.Config{}
	cfg.Server.CORSAllowedOrigins = []string{"*"}
	cfg.Auth = config.AuthConfig{SecretKey: "e2e-secret", Algorithm: "HS256", AccessTokenExpireMinutes: 5, BcryptCost: 4}
	cfg.Features.MatchSuggestions = true

	log := logger.NewTestLogger(t)
	tokens, err := auth.NewTokenManager(cfg.Auth)
	require.NoError(t, err)

	extractor, err := terms.NewExtractor(terms.Config{}, nil, log)
	require.NoError(t, err)

	st := store.New(pg.DB)
	srv := api.NewServer(api.Dependencies{
		Config:      cfg,
		Users:       st,
		Challenges:  st,
		Submissions: st,
		Tokens:      tokens,
		Suggester:   suggest.NewEngine(st, extractor, suggest.Config{}, nil, log),
		Readiness:   []api.ReadinessCheck{{Name: "postgres", Check: pg.Ping}},
		Logger:      log,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHiringFlow(t *testing.T) {
	ts := newServer(t)
	c := &client{t: t, base: ts.URL}

	status, _ := c.do(http.MethodGet, "/ready", "", "", nil)
	require.Equal(t, http.StatusOK, status)

	run := strings.ReplaceAll(uuid.NewString(), "-", "")
	companyToken := c.registerAndLogin(fmt.Sprintf("company-%s@example.com", run), "company")
	candidateToken := c.registerAndLogin(fmt.Sprintf("candidate-%s@example.com", run), "candidate")

	// A marker term unique to this run keeps earlier runs' rows from tying.
	marker := "run" + run
	status, body := c.postJSON("/challenges", companyToken, models.ChallengeCreate{
		Title:       "Scheduler " + marker,
		Description: "golang concurrency",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var challenge models.Challenge
	require.NoError(t, json.Unmarshal(body, &challenge))

	// A second company receives the submission so it counts as outside talent.
	otherToken := c.registerAndLogin(fmt.Sprintf("other-%s@example.com", run), "company")
	status, body = c.postJSON("/challenges", otherToken, models.ChallengeCreate{
		Title:       "Unrelated " + marker,
		Description: "marketing copy",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var other models.Challenge
	require.NoError(t, json.Unmarshal(body, &other))

	status, body = c.postJSON("/submissions", candidateToken, models.SubmissionCreate{
		Content:     marker + " golang concurrency scheduler",
		ChallengeID: other.ID,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var submission models.Submission
	require.NoError(t, json.Unmarshal(body, &submission))

	status, body = c.do(http.MethodGet, "/submissions/my", candidateToken, "", nil)
	require.Equal(t, http.StatusOK, status)
	var mine []models.SubmissionWithChallenge
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Unrelated "+marker, mine[0].ChallengeTitle)

	status, body = c.do(http.MethodGet, "/match/suggestions", companyToken, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var suggestions []models.MatchSuggestion
	require.NoError(t, json.Unmarshal(body, &suggestions))
	require.NotEmpty(t, suggestions)

	top := suggestions[0]
	assert.Equal(t, challenge.ID, top.ChallengeID)
	assert.Equal(t, submission.ID, top.SubmissionID)
	assert.Equal(t, 1.0, top.MatchScore)
	assert.True(t, strings.HasPrefix(top.MatchReason, "Matching skills: "), top.MatchReason)

	status, _ = c.do(http.MethodGet, "/match/suggestions", candidateToken, "", nil)
	assert.Equal(t, http.StatusForbidden, status)
}
