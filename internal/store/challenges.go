package store

import (
	"context"
	"database/sql"
	"errors"

	commonerrors "hiring-platform/internal/common/errors"
	"hiring-platform/internal/models"
)

const challengeWithCompanyColumns = `c.id, c.title, c.description, c.company_id, u.email`

func (s *Store) CreateChallenge(ctx context.Context, companyID int64, in models.ChallengeCreate) (*models.Challenge, error) {
	ch := &models.Challenge{Title: in.Title, Description: in.Description, CompanyID: companyID}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO challenges (title, description, company_id) VALUES ($1, $2, $3) RETURNING id`,
		in.Title, in.Description, companyID,
	).Scan(&ch.ID)
	if err != nil {
		return nil, commonerrors.NewDatabaseError("create challenge", err)
	}
	return ch, nil
}

func (s *Store) GetChallenge(ctx context.Context, id int64) (*models.ChallengeWithCompany, error) {
	var ch models.ChallengeWithCompany
	err := s.db.QueryRowContext(ctx,
		`SELECT `+challengeWithCompanyColumns+` FROM challenges c JOIN users u ON u.id = c.company_id WHERE c.id = $1`,
		id,
	).Scan(&ch.ID, &ch.Title, &ch.Description, &ch.CompanyID, &ch.CompanyEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, commonerrors.NewDatabaseError("get challenge", err)
	}
	return &ch, nil
}

// ListChallenges returns every challenge with its company email. A
// non-empty query keeps challenges whose title or description contains it.
func (s *Store) ListChallenges(ctx context.Context, query string) ([]models.ChallengeWithCompany, error) {
	var (
		rows *sql.Rows
		err  error
	)
	base := `SELECT ` + challengeWithCompanyColumns + ` FROM challenges c JOIN users u ON u.id = c.company_id`
	if query == "" {
		rows, err = s.db.QueryContext(ctx, base+` ORDER BY c.id`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			base+` WHERE c.title ILIKE $1 OR c.description ILIKE $1 ORDER BY c.id`,
			likePattern(query),
		)
	}
	if err != nil {
		return nil, commonerrors.NewDatabaseError("list challenges", err)
	}
	defer rows.Close()

	out := []models.ChallengeWithCompany{}
	for rows.Next() {
		var ch models.ChallengeWithCompany
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Description, &ch.CompanyID, &ch.CompanyEmail); err != nil {
			return nil, commonerrors.NewDatabaseError("scan challenge", err)
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewDatabaseError("list challenges", err)
	}
	return out, nil
}

func (s *Store) ListChallengesByCompany(ctx context.Context, companyID int64) ([]models.Challenge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, company_id FROM challenges WHERE company_id = $1 ORDER BY id`,
		companyID,
	)
	if err != nil {
		return nil, commonerrors.NewDatabaseError("list company challenges", err)
	}
	defer rows.Close()

	out := []models.Challenge{}
	for rows.Next() {
		var ch models.Challenge
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Description, &ch.CompanyID); err != nil {
			return nil, commonerrors.NewDatabaseError("scan challenge", err)
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewDatabaseError("list company challenges", err)
	}
	return out, nil
}

// GetCompanyChallenge returns ErrNotFound both for missing challenges and
// for challenges owned by someone else.
func (s *Store) GetCompanyChallenge(ctx context.Context, id, companyID int64) (*models.Challenge, error) {
	var ch models.Challenge
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, company_id FROM challenges WHERE id = $1 AND company_id = $2`,
		id, companyID,
	).Scan(&ch.ID, &ch.Title, &ch.Description, &ch.CompanyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, commonerrors.NewDatabaseError("get company challenge", err)
	}
	return &ch, nil
}
