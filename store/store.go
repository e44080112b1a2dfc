package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"greenguard-be/models"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken     = errors.New("user with this email already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrReportNotFound = errors.New("report not found")
)

// Store is the in-memory data layer for the process lifetime. Reports are
// created once, never deleted, and their status is only mutated through
// TransitionReport.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*models.User
	byEmail     map[string]string
	org         *models.Organization
	reports     map[string]*models.Report
	reportOrder []string
}

var (
	instance *Store
	once     sync.Once
)

// Get returns the shared store instance
func Get() *Store {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates an empty store. Tests use this directly to avoid sharing
// state through the singleton.
func New() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		reports: make(map[string]*models.Report),
	}
}

// CreateUser inserts a new user, enforcing email uniqueness
func (s *Store) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetUser returns the user with the given ID
func (s *Store) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserByEmail returns the user registered under the given email
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.users[id], nil
}

// SetOrganization installs the verifying organization
func (s *Store) SetOrganization(org *models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.org = org
}

// Organization returns the verifying organization, if seeded
func (s *Store) Organization() *models.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.org
}

// CreateReportAndCredit inserts a Pending report and credits the owning
// user's greenUnits in one step under the store lock, so no reader ever
// sees a report without its credit or vice versa.
func (s *Store) CreateReportAndCredit(report *models.Report, reward int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[report.UserID]
	if !ok {
		return ErrUserNotFound
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	s.reports[report.ID] = report
	s.reportOrder = append(s.reportOrder, report.ID)
	user.Reports = append(user.Reports, report)
	user.GreenUnits += reward
	user.UpdatedAt = time.Now()
	return nil
}

// GetReport returns a snapshot of the report with the given ID
func (s *Store) GetReport(id string) (models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return models.Report{}, ErrReportNotFound
	}
	return *report, nil
}

// TransitionReport advances a report's status under the store lock. It
// returns ErrReportNotFound for unknown IDs and the state machine's
// ErrInvalidTransition when the move is not allowed; the report is left
// unchanged on failure.
func (s *Store) TransitionReport(id string, next models.ReportStatus) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return models.Report{}, ErrReportNotFound
	}
	if err := report.Transition(next); err != nil {
		return *report, err
	}
	return *report, nil
}

// UserReports returns snapshots of a user's reports, newest first
func (s *Store) UserReports(userID string) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	reports := make([]models.Report, 0, len(user.Reports))
	for i := len(user.Reports) - 1; i >= 0; i-- {
		reports = append(reports, *user.Reports[i])
	}
	return reports, nil
}

// OrgReport is a report snapshot joined with its reporter's identity, for
// the organization review feed.
type OrgReport struct {
	models.Report
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// AllReports returns every report across users, newest first, each joined
// with the reporter's name and email.
func (s *Store) AllReports() []OrgReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]OrgReport, 0, len(s.reportOrder))
	for i := len(s.reportOrder) - 1; i >= 0; i-- {
		report := s.reports[s.reportOrder[i]]
		entry := OrgReport{Report: *report}
		if user, ok := s.users[report.UserID]; ok {
			entry.UserName = user.Name
			entry.UserEmail = user.Email
		}
		reports = append(reports, entry)
	}
	return reports
}

// LeaderboardEntries returns one unranked entry per user, in user
// creation order so that ranking stays stable across equal scores.
func (s *Store) LeaderboardEntries() []models.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// map order is random; iterate by creation time for a stable base order
	entries := make([]models.LeaderboardEntry, 0, len(s.users))
	for _, user := range s.usersByCreation() {
		entries = append(entries, models.LeaderboardEntry{
			ID:         user.ID,
			Name:       user.Name,
			AvatarURL:  user.AvatarURL,
			GreenUnits: user.GreenUnits,
		})
	}
	return entries
}

func (s *Store) usersByCreation() []*models.User {
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users
}
