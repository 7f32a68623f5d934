package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/common/metrics"
	"hiring-platform/internal/models"
)

const (
	requestIDHeader = "X-Request-ID"
	traceIDHeader   = "X-Trace-ID"
)

var tracer = otel.Tracer("hiring-platform/api")

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					writeError(w, r, log, errors.NewInternalError(fmt.Sprintf("panic: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestID reuses an incoming X-Request-ID or generates one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  requestIDFrom(r.Context()),
			}
			if traceID := rec.Header().Get(traceIDHeader); traceID != "" {
				fields["traceId"] = traceID
			}
			log.Info("request completed", fields)
		})
	}
}

// cors answers preflight requests itself with 204.
func cors(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				} else {
					h.Set("Access-Control-Allow-Headers", "*")
				}
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// instrument wraps a single route with a span and the HTTP collectors,
// labelled by the route pattern rather than the raw path.
func instrument(pattern string, next http.Handler) http.Handler {
	method, route, found := strings.Cut(pattern, " ")
	if !found {
		method, route = "", pattern
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := tracer.Start(r.Context(), strings.TrimSpace(method+" "+route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()
		if sc := span.SpanContext(); sc.HasTraceID() {
			w.Header().Set(traceIDHeader, sc.TraceID().String())
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// authenticate resolves the bearer token to a user and stores both in the
// request context.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unauthorized := errors.NewAuthenticationError("Could not validate credentials", "")

		token, ok := bearerToken(r)
		if !ok {
			unauthorized.Details = "missing bearer token"
			writeError(w, r, s.logger, unauthorized)
			return
		}

		claims, err := s.tokens.Parse(token)
		if err != nil {
			unauthorized.Details = err.Error()
			writeError(w, r, s.logger, unauthorized)
			return
		}

		revoked, err := s.revocations.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			writeError(w, r, s.logger, errors.NewExternalServiceError("redis", err))
			return
		}
		if revoked {
			unauthorized.Details = "token revoked"
			writeError(w, r, s.logger, unauthorized)
			return
		}

		user, err := s.users.GetUserByEmail(r.Context(), claims.Subject)
		if err != nil {
			if _, isStd := errors.As(err); isStd {
				writeError(w, r, s.logger, err)
				return
			}
			unauthorized.Details = "unknown subject"
			writeError(w, r, s.logger, unauthorized)
			return
		}

		next(w, r.WithContext(withPrincipal(r.Context(), user, claims)))
	}
}

func (s *Server) requireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()).Role != role {
			writeError(w, r, s.logger, errors.NewPermissionDeniedError(
				fmt.Sprintf("Not enough permissions. Only %s users can access this endpoint.", role),
			))
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
