// Package memory is the process-local storage backend. Data lives in maps and
// is lost on restart; it serves development and the fallback path when no
// external store is reachable.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/campuslink/auth-portal/internal/core/credential"
	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

// Store implements ports.Storage on top of in-process maps. Identifiers come
// from a single monotonically incremented counter shared by all record kinds.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	students  map[string]domain.StudentProfile
	companies map[string]domain.CompanyProfile
	nextID    int

	hasher ports.PasswordHasher
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(hasher ports.PasswordHasher, opts ...Option) *Store {
	s := &Store{
		accounts:  make(map[string]domain.Account),
		students:  make(map[string]domain.StudentProfile),
		companies: make(map[string]domain.CompanyProfile),
		nextID:    1,
		hasher:    hasher,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateID must be called with mu held for writing. Identifiers already
// claimed by an explicitly supplied account id are skipped.
func (s *Store) generateID() string {
	for {
		id := strconv.Itoa(s.nextID)
		s.nextID++
		if _, taken := s.accounts[id]; !taken {
			return id
		}
	}
}

func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (s *Store) UpsertAccount(_ context.Context, patch domain.AccountPatch) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := patch.ID
	if id == "" {
		id = s.generateID()
	}

	now := s.now()
	existing, found := s.accounts[id]
	if !found {
		existing = domain.Account{ID: id, CreatedAt: now}
	}

	acc := patch.Apply(existing)
	acc.UpdatedAt = now

	s.accounts[id] = acc
	return &acc, nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.accounts, id)
	return nil
}

func (s *Store) CreateStudentProfile(_ context.Context, accountID string, data domain.StudentRegistration) (*domain.StudentProfile, error) {
	// Hash before taking the lock; bcrypt is deliberately slow.
	hash, err := credential.HashOptional(s.hasher, data.Password)
	if err != nil {
		return nil, fmt.Errorf("hash student password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	if data.StudentEmail != "" {
		for _, st := range s.students {
			if st.StudentEmail == data.StudentEmail {
				return nil, fmt.Errorf("student email %q: %w", data.StudentEmail, domain.ErrConflict)
			}
		}
	}

	now := s.now()
	profile := domain.StudentProfile{
		ID:             s.generateID(),
		AccountID:      accountID,
		StudentEmail:   data.StudentEmail,
		PasswordHash:   hash,
		University:     data.University,
		Major:          data.Major,
		GraduationYear: data.GraduationYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.students[profile.ID] = profile
	return &profile, nil
}

// FindStudentByEmail never matches an empty email; federated profiles carry
// none.
func (s *Store) FindStudentByEmail(_ context.Context, email string) (*domain.StudentAccount, error) {
	if email == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.students {
		if st.StudentEmail != email {
			continue
		}
		if acc, ok := s.accounts[st.AccountID]; ok {
			return &domain.StudentAccount{Profile: st, Account: acc}, nil
		}
	}
	return nil, nil
}

func (s *Store) AuthenticateStudent(ctx context.Context, claim domain.StudentLogin) (*domain.StudentAccount, error) {
	found, err := s.FindStudentByEmail(ctx, claim.Email)
	if err != nil {
		return nil, err
	}
	return credential.CheckStudent(s.hasher, found, claim), nil
}

func (s *Store) CreateCompanyProfile(_ context.Context, accountID string, data domain.CompanyRegistration) (*domain.CompanyProfile, error) {
	hash, err := s.hasher.Hash(data.Password)
	if err != nil {
		return nil, fmt.Errorf("hash company password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	for _, c := range s.companies {
		if c.CompanyCode == data.CompanyCode {
			return nil, fmt.Errorf("company code %q: %w", data.CompanyCode, domain.ErrConflict)
		}
		if c.CompanyEmail == data.CompanyEmail {
			return nil, fmt.Errorf("company email %q: %w", data.CompanyEmail, domain.ErrConflict)
		}
	}

	now := s.now()
	profile := domain.CompanyProfile{
		ID:           s.generateID(),
		AccountID:    accountID,
		CompanyName:  data.CompanyName,
		CompanyCode:  data.CompanyCode,
		CompanyEmail: data.CompanyEmail,
		PasswordHash: hash,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.companies[profile.ID] = profile
	return &profile, nil
}

func (s *Store) FindCompanyByEmail(_ context.Context, email string) (*domain.CompanyAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.companies {
		if c.CompanyEmail != email {
			continue
		}
		if acc, ok := s.accounts[c.AccountID]; ok {
			return &domain.CompanyAccount{Profile: c, Account: acc}, nil
		}
	}
	return nil, nil
}

func (s *Store) AuthenticateCompany(ctx context.Context, claim domain.CompanyLogin) (*domain.CompanyAccount, error) {
	found, err := s.FindCompanyByEmail(ctx, claim.Email)
	if err != nil {
		return nil, err
	}
	return credential.CheckCompany(s.hasher, found, claim), nil
}
