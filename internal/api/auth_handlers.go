package api

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"hiring-platform/internal/common/auth"
	"hiring-platform/internal/common/errors"
	"hiring-platform/internal/common/validation"
	"hiring-platform/internal/models"
	"hiring-platform/internal/store"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.UserCreate
	if err := decodeJSON(r, validation.UserCreateSchema, &in); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if in.Role == "" {
		in.Role = models.RoleCandidate
	}
	in.Email = strings.TrimSpace(in.Email)

	hash, err := auth.HashPassword(in.Password, s.config.Auth.BcryptCost)
	if err != nil {
		writeError(w, r, s.logger, errors.NewInternalError(err.Error()))
		return
	}

	user, err := s.users.CreateUser(r.Context(), in.Email, hash, in.Role)
	if err != nil {
		if stderrors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, r, s.logger, errors.NewEmailAlreadyRegisteredError(in.Email))
			return
		}
		writeError(w, r, s.logger, err)
		return
	}

	s.logger.Info("user registered", map[string]interface{}{
		"userId": user.ID,
		"role":   string(user.Role),
	})
	writeJSON(w, http.StatusCreated, user.Response())
}

// handleLogin follows the OAuth2 password flow: form fields username and
// password, where username is the email address.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, s.logger, errors.NewValidationError("Invalid form body", err.Error()))
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		writeError(w, r, s.logger, errors.NewValidationError("username and password are required", ""))
		return
	}

	badCredentials := errors.NewAuthenticationError("Incorrect email or password", "")

	user, err := s.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			writeError(w, r, s.logger, badCredentials)
			return
		}
		writeError(w, r, s.logger, err)
		return
	}
	if !auth.VerifyPassword(user.HashedPassword, password) {
		writeError(w, r, s.logger, badCredentials)
		return
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		writeError(w, r, s.logger, errors.NewInternalError(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims := currentClaims(r.Context())

	if err := s.revocations.Revoke(r.Context(), claims.ID, claims.Remaining(time.Now())); err != nil {
		writeError(w, r, s.logger, errors.NewExternalServiceError("redis", err))
		return
	}

	s.logger.Info("user logged out", map[string]interface{}{
		"userId": currentUser(r.Context()).ID,
	})
	writeJSON(w, http.StatusOK, messageBody{Message: "Successfully logged out"})
}
