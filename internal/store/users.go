package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	commonerrors "hiring-platform/internal/common/errors"
	"hiring-platform/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error) {
	user := &models.User{Email: email, HashedPassword: hashedPassword, Role: role}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, hashed_password, role) VALUES ($1, $2, $3) RETURNING id, created_at`,
		email, hashedPassword, string(role),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
		}
		return nil, commonerrors.NewDatabaseError("create user", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var (
		user models.User
		role string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, hashed_password, role, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.HashedPassword, &role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, commonerrors.NewDatabaseError("get user", err)
	}
	user.Role = models.Role(role)
	return &user, nil
}
