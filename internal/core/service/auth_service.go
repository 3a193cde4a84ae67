package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
	"github.com/campuslink/auth-portal/internal/core/validation"
	"github.com/campuslink/auth-portal/internal/pkg/metrics"
)

// AuthService implements login, session and registration use cases on top of
// the storage contract.
type AuthService struct {
	store     ports.Storage
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

var (
	_ ports.AuthService         = (*AuthService)(nil)
	_ ports.RegistrationService = (*AuthService)(nil)
)

// NewAuthService builds the service. sessions may be nil, in which case
// tokens are not tracked and logout is a no-op.
func NewAuthService(store ports.Storage, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     store,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) LoginStudent(ctx context.Context, claim domain.StudentLogin) (*ports.StudentSession, error) {
	if err := validation.Validate(claim); err != nil {
		recordAttempt(domain.TenantStudent, "rejected")
		return nil, err
	}

	found, err := s.store.AuthenticateStudent(ctx, claim)
	if err != nil {
		recordAttempt(domain.TenantStudent, "error")
		return nil, fmt.Errorf("login student: %w", err)
	}
	if found == nil {
		recordAttempt(domain.TenantStudent, "invalid")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, found.Account.ID, domain.TenantStudent)
	if err != nil {
		recordAttempt(domain.TenantStudent, "error")
		return nil, fmt.Errorf("login student: %w", err)
	}

	recordAttempt(domain.TenantStudent, "success")
	return &ports.StudentSession{Token: token, Student: found}, nil
}

func (s *AuthService) LoginCompany(ctx context.Context, claim domain.CompanyLogin) (*ports.CompanySession, error) {
	if err := validation.Validate(claim); err != nil {
		recordAttempt(domain.TenantCompany, "rejected")
		return nil, err
	}

	found, err := s.store.AuthenticateCompany(ctx, claim)
	if err != nil {
		recordAttempt(domain.TenantCompany, "error")
		return nil, fmt.Errorf("login company: %w", err)
	}
	if found == nil {
		recordAttempt(domain.TenantCompany, "invalid")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, found.Account.ID, domain.TenantCompany)
	if err != nil {
		recordAttempt(domain.TenantCompany, "error")
		return nil, fmt.Errorf("login company: %w", err)
	}

	recordAttempt(domain.TenantCompany, "success")
	return &ports.CompanySession{Token: token, Company: found}, nil
}

func (s *AuthService) CurrentAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("current account: %w", err)
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.sessions == nil || sessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.SessionsRevokedTotal.Inc()
	return nil
}

// RegisterStudent creates or updates the account tagged as a student and
// attaches a new student profile to it. If the profile cannot be created, an
// account created by this call is removed again.
func (s *AuthService) RegisterStudent(ctx context.Context, account domain.AccountPatch, data domain.StudentRegistration) (*domain.StudentAccount, error) {
	if err := validateAll(account, data); err != nil {
		return nil, err
	}

	acc, created, err := s.upsertTagged(ctx, account, domain.TenantStudent)
	if err != nil {
		return nil, fmt.Errorf("register student: %w", err)
	}

	profile, err := s.store.CreateStudentProfile(ctx, acc.ID, data)
	if err != nil {
		s.compensate(ctx, acc.ID, created)
		return nil, fmt.Errorf("register student: %w", err)
	}

	s.log.Info().Str("account_id", acc.ID).Msg("student registered")
	return &domain.StudentAccount{Profile: *profile, Account: *acc}, nil
}

// RegisterCompany mirrors RegisterStudent for company accounts.
func (s *AuthService) RegisterCompany(ctx context.Context, account domain.AccountPatch, data domain.CompanyRegistration) (*domain.CompanyAccount, error) {
	if err := validateAll(account, data); err != nil {
		return nil, err
	}

	acc, created, err := s.upsertTagged(ctx, account, domain.TenantCompany)
	if err != nil {
		return nil, fmt.Errorf("register company: %w", err)
	}

	profile, err := s.store.CreateCompanyProfile(ctx, acc.ID, data)
	if err != nil {
		s.compensate(ctx, acc.ID, created)
		return nil, fmt.Errorf("register company: %w", err)
	}

	s.log.Info().Str("account_id", acc.ID).Str("company_code", profile.CompanyCode).Msg("company registered")
	return &domain.CompanyAccount{Profile: *profile, Account: *acc}, nil
}

// SyncAccount upserts an account pushed by the federated identity provider.
func (s *AuthService) SyncAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error) {
	if err := validation.Validate(patch); err != nil {
		return nil, err
	}
	acc, err := s.store.UpsertAccount(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("sync account: %w", err)
	}
	return acc, nil
}

// upsertTagged reports whether the account did not exist before the call.
func (s *AuthService) upsertTagged(ctx context.Context, patch domain.AccountPatch, tenant domain.TenantType) (*domain.Account, bool, error) {
	created := true
	if patch.ID != "" {
		prior, err := s.store.GetAccount(ctx, patch.ID)
		if err != nil {
			return nil, false, err
		}
		created = prior == nil
	}

	patch.TenantType = &tenant
	acc, err := s.store.UpsertAccount(ctx, patch)
	if err != nil {
		return nil, false, err
	}
	return acc, created, nil
}

func (s *AuthService) compensate(ctx context.Context, accountID string, created bool) {
	if !created {
		return
	}
	if err := s.store.DeleteAccount(ctx, accountID); err != nil {
		s.log.Error().Err(err).Str("account_id", accountID).Msg("failed to remove account after profile error")
	}
}

func (s *AuthService) issueToken(ctx context.Context, accountID string, tenant domain.TenantType) (string, error) {
	sid := uuid.NewString()
	if s.sessions != nil {
		var err error
		if sid, err = s.sessions.Create(ctx, accountID, s.tokenTTL); err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
	}
	return s.generateToken(accountID, tenant, sid)
}

func (s *AuthService) generateToken(accountID string, tenant domain.TenantType, sid string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":    accountID,
		"tenant": string(tenant),
		"sid":    sid,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func validateAll(payloads ...any) error {
	for _, p := range payloads {
		if err := validation.Validate(p); err != nil {
			return err
		}
	}
	return nil
}

func recordAttempt(tenant domain.TenantType, result string) {
	metrics.AuthAttemptsTotal.WithLabelValues(string(tenant), result).Inc()
}
