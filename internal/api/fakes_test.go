package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"hiring-platform/internal/models"
	"hiring-platform/internal/store"
)

// memRepo is an in-memory stand-in for the Postgres store.
type memRepo struct {
	mu          sync.Mutex
	users       []*models.User
	challenges  []*models.Challenge
	submissions []*models.Submission
}

func (m *memRepo) CreateUser(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, store.ErrDuplicateEmail
		}
	}
	u := &models.User{ID: int64(len(m.users) + 1), Email: email, HashedPassword: hashedPassword, Role: role}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memRepo) emailOf(id int64) string {
	for _, u := range m.users {
		if u.ID == id {
			return u.Email
		}
	}
	return ""
}

func (m *memRepo) CreateChallenge(ctx context.Context, companyID int64, in models.ChallengeCreate) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := &models.Challenge{ID: int64(len(m.challenges) + 1), Title: in.Title, Description: in.Description, CompanyID: companyID}
	m.challenges = append(m.challenges, ch)
	return ch, nil
}

func (m *memRepo) GetChallenge(ctx context.Context, id int64) (*models.ChallengeWithCompany, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.challenges {
		if ch.ID == id {
			return &models.ChallengeWithCompany{Challenge: *ch, CompanyEmail: m.emailOf(ch.CompanyID)}, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memRepo) ListChallenges(ctx context.Context, query string) ([]models.ChallengeWithCompany, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ChallengeWithCompany{}
	q := strings.ToLower(query)
	for _, ch := range m.challenges {
		if q == "" || strings.Contains(strings.ToLower(ch.Title), q) || strings.Contains(strings.ToLower(ch.Description), q) {
			out = append(out, models.ChallengeWithCompany{Challenge: *ch, CompanyEmail: m.emailOf(ch.CompanyID)})
		}
	}
	return out, nil
}

func (m *memRepo) ListChallengesByCompany(ctx context.Context, companyID int64) ([]models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Challenge{}
	for _, ch := range m.challenges {
		if ch.CompanyID == companyID {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (m *memRepo) GetCompanyChallenge(ctx context.Context, id, companyID int64) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.challenges {
		if ch.ID == id && ch.CompanyID == companyID {
			cp := *ch
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memRepo) CreateSubmission(ctx context.Context, candidateID int64, in models.SubmissionCreate) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := &models.Submission{
		ID:          int64(len(m.submissions) + 1),
		Content:     in.Content,
		Timestamp:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		CandidateID: candidateID,
		ChallengeID: in.ChallengeID,
	}
	m.submissions = append(m.submissions, sub)
	return sub, nil
}

func (m *memRepo) withTitles(filter func(*models.Submission) bool) []models.SubmissionWithChallenge {
	out := []models.SubmissionWithChallenge{}
	for _, sub := range m.submissions {
		if !filter(sub) {
			continue
		}
		title := ""
		for _, ch := range m.challenges {
			if ch.ID == sub.ChallengeID {
				title = ch.Title
			}
		}
		out = append(out, models.SubmissionWithChallenge{Submission: *sub, ChallengeTitle: title})
	}
	return out
}

func (m *memRepo) ListSubmissions(ctx context.Context) ([]models.SubmissionWithChallenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withTitles(func(*models.Submission) bool { return true }), nil
}

func (m *memRepo) ListSubmissionsByCandidate(ctx context.Context, candidateID int64) ([]models.SubmissionWithChallenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withTitles(func(s *models.Submission) bool { return s.CandidateID == candidateID }), nil
}

func (m *memRepo) ListSubmissionsOutsideCompany(ctx context.Context, companyID int64) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner := map[int64]int64{}
	for _, ch := range m.challenges {
		owner[ch.ID] = ch.CompanyID
	}
	out := []models.Submission{}
	for _, sub := range m.submissions {
		if owner[sub.ChallengeID] != companyID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (m *memRepo) GetCandidateSubmission(ctx context.Context, id, candidateID int64) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.submissions {
		if sub.ID == id && sub.CandidateID == candidateID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

type stubSuggester struct {
	got    int64
	result []models.MatchSuggestion
	err    error
}

func (s *stubSuggester) Suggest(ctx context.Context, companyID int64) ([]models.MatchSuggestion, error) {
	s.got = companyID
	return s.result, s.err
}

type stubSearcher struct {
	query   string
	results []models.ChallengeWithCompany
	indexed []models.ChallengeWithCompany
	err     error
}

func (s *stubSearcher) Search(ctx context.Context, query string) ([]models.ChallengeWithCompany, error) {
	s.query = query
	return s.results, s.err
}

func (s *stubSearcher) IndexChallenge(ctx context.Context, challenge models.ChallengeWithCompany) error {
	s.indexed = append(s.indexed, challenge)
	return s.err
}

type stubNotifier struct {
	events []models.SubmissionEvent
	err    error
}

func (s *stubNotifier) NotifySubmission(ctx context.Context, event models.SubmissionEvent) (*models.Notification, error) {
	s.events = append(s.events, event)
	return &models.Notification{Status: models.NotificationStatusSent}, s.err
}
