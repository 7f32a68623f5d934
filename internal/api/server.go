// Package api exposes the hiring platform over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hiring-platform/internal/common/auth"
	"hiring-platform/internal/common/config"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/models"
	"hiring-platform/internal/uploads"
)

// Suggester produces match suggestions for a company.
type Suggester interface {
	Suggest(ctx context.Context, companyID int64) ([]models.MatchSuggestion, error)
}

type ChallengeSearcher interface {
	Search(ctx context.Context, query string) ([]models.ChallengeWithCompany, error)
	IndexChallenge(ctx context.Context, challenge models.ChallengeWithCompany) error
}

type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, event models.SubmissionEvent) (*models.Notification, error)
}

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies wires the server. Search, Notifier and Uploads may be nil
// when their feature is disabled.
type Dependencies struct {
	Config      *config.Config
	Users       models.UserRepository
	Challenges  models.ChallengeRepository
	Submissions models.SubmissionRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	Suggester   Suggester
	Search      ChallengeSearcher
	Notifier    SubmissionNotifier
	Uploads     *uploads.Store
	Readiness   []ReadinessCheck
	Metrics     http.Handler
	Logger      logger.Logger
}

type Server struct {
	config      *config.Config
	users       models.UserRepository
	challenges  models.ChallengeRepository
	submissions models.SubmissionRepository
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	suggester   Suggester
	search      ChallengeSearcher
	notifier    SubmissionNotifier
	uploads     *uploads.Store
	readiness   []ReadinessCheck
	metrics     http.Handler
	logger      logger.Logger
}

func NewServer(deps Dependencies) *Server {
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NoopRevocationStore{}
	}
	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	return &Server{
		config:      deps.Config,
		users:       deps.Users,
		challenges:  deps.Challenges,
		submissions: deps.Submissions,
		tokens:      deps.Tokens,
		revocations: revocations,
		suggester:   deps.Suggester,
		search:      deps.Search,
		notifier:    deps.Notifier,
		uploads:     deps.Uploads,
		readiness:   deps.Readiness,
		metrics:     metricsHandler,
		logger:      deps.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Handler returns the routed handler with the global middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, instrument(pattern, h))
	}

	handle("GET /{$}", s.handleRoot)
	handle("GET /health", s.handleHealth)
	handle("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", s.metrics)

	handle("POST /auth/register", s.handleRegister)
	handle("POST /auth/login", s.handleLogin)
	handle("POST /auth/logout", s.authenticate(s.handleLogout))

	handle("GET /challenges", s.authenticate(s.handleListChallenges))
	handle("GET /challenges/{id}", s.authenticate(s.handleGetChallenge))
	handle("POST /challenges", s.requireRole(models.RoleCompany, s.handleCreateChallenge))

	handle("POST /submissions", s.requireRole(models.RoleCandidate, s.handleCreateSubmission))
	handle("GET /submissions", s.requireRole(models.RoleCompany, s.handleListSubmissions))
	handle("GET /submissions/my", s.requireRole(models.RoleCandidate, s.handleListMySubmissions))

	handle("GET /match/suggestions", s.requireRole(models.RoleCompany, s.handleMatchSuggestions))

	handle("POST /upload/challenge/{id}/attachment", s.requireRole(models.RoleCompany, s.handleChallengeAttachment))
	handle("POST /upload/submission/{id}/file", s.requireRole(models.RoleCandidate, s.handleSubmissionFile))

	var h http.Handler = mux
	h = accessLog(s.logger)(h)
	h = cors(s.config.Server.CORSAllowedOrigins)(h)
	h = requestID(h)
	h = recoverer(s.logger)(h)
	return h
}
