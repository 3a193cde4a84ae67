package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
	"github.com/campuslink/auth-portal/internal/core/validation"
	"github.com/campuslink/auth-portal/internal/infrastructure/db/memory"
	"github.com/campuslink/auth-portal/internal/pkg/password"
)

// countingStore wraps a real in-memory store and records how often the
// credential paths are reached.
type countingStore struct {
	ports.Storage
	authCalls     int
	failCompanies bool
}

func (s *countingStore) AuthenticateStudent(ctx context.Context, claim domain.StudentLogin) (*domain.StudentAccount, error) {
	s.authCalls++
	return s.Storage.AuthenticateStudent(ctx, claim)
}

func (s *countingStore) AuthenticateCompany(ctx context.Context, claim domain.CompanyLogin) (*domain.CompanyAccount, error) {
	s.authCalls++
	return s.Storage.AuthenticateCompany(ctx, claim)
}

func (s *countingStore) CreateCompanyProfile(ctx context.Context, accountID string, data domain.CompanyRegistration) (*domain.CompanyProfile, error) {
	if s.failCompanies {
		return nil, domain.ErrConflict
	}
	return s.Storage.CreateCompanyProfile(ctx, accountID, data)
}

type stubSessions struct {
	live map[string]string
}

func newStubSessions() *stubSessions {
	return &stubSessions{live: make(map[string]string)}
}

func (s *stubSessions) Create(_ context.Context, accountID string, _ time.Duration) (string, error) {
	sid := "sid-" + accountID
	s.live[sid] = accountID
	return sid, nil
}

func (s *stubSessions) Exists(_ context.Context, sid string) (bool, error) {
	_, ok := s.live[sid]
	return ok, nil
}

func (s *stubSessions) Revoke(_ context.Context, sid string) error {
	delete(s.live, sid)
	return nil
}

func newTestService(sessions ports.SessionStore) (*AuthService, *countingStore) {
	store := &countingStore{Storage: memory.NewStore(password.NewBcryptHasher())}
	return NewAuthService(store, sessions, "secret", time.Hour, zerolog.Nop()), store
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}

func acmeRegistration() domain.CompanyRegistration {
	return domain.CompanyRegistration{
		CompanyName:  "Acme",
		CompanyCode:  "ACME1",
		CompanyEmail: "hr@acme.com",
		Password:     "longenough1",
	}
}

func TestAuthService_LoginCompany_Success(t *testing.T) {
	sessions := newStubSessions()
	svc, _ := newTestService(sessions)
	ctx := context.Background()

	reg, err := svc.RegisterCompany(ctx, domain.AccountPatch{}, acmeRegistration())
	if err != nil {
		t.Fatalf("RegisterCompany returned error: %v", err)
	}

	session, err := svc.LoginCompany(ctx, domain.CompanyLogin{Email: "hr@acme.com", Password: "longenough1", CompanyCode: "ACME1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Company.Profile.ID != reg.Profile.ID {
		t.Fatalf("unexpected company: %+v", session.Company)
	}

	claims := parseClaims(t, session.Token)
	if claims["sub"] != reg.Account.ID {
		t.Fatalf("expected sub %s, got %v", reg.Account.ID, claims["sub"])
	}
	if claims["tenant"] != string(domain.TenantCompany) {
		t.Fatalf("expected tenant company, got %v", claims["tenant"])
	}
	if _, ok := sessions.live[claims["sid"].(string)]; !ok {
		t.Fatalf("expected session %v to be recorded", claims["sid"])
	}
}

func TestAuthService_LoginCompany_WrongCode(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.RegisterCompany(ctx, domain.AccountPatch{}, acmeRegistration()); err != nil {
		t.Fatalf("RegisterCompany returned error: %v", err)
	}

	_, err := svc.LoginCompany(ctx, domain.CompanyLogin{Email: "hr@acme.com", Password: "longenough1", CompanyCode: "acme1"})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginStudent_InvalidPassword(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.RegisterStudent(ctx, domain.AccountPatch{}, domain.StudentRegistration{
		StudentEmail: "ana@uni.edu", Password: "studentpass",
	}); err != nil {
		t.Fatalf("RegisterStudent returned error: %v", err)
	}

	if _, err := svc.LoginStudent(ctx, domain.StudentLogin{Email: "ana@uni.edu", Password: "wrongpass1"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	session, err := svc.LoginStudent(ctx, domain.StudentLogin{Email: "ana@uni.edu", Password: "studentpass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if claims := parseClaims(t, session.Token); claims["tenant"] != string(domain.TenantStudent) {
		t.Fatalf("expected tenant student, got %v", claims["tenant"])
	}
}

func TestAuthService_LoginStudent_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.LoginStudent(context.Background(), domain.StudentLogin{Email: "ghost@uni.edu", Password: "whatever1"})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginStudent_FederatedProfileRejected(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.RegisterStudent(ctx, domain.AccountPatch{ID: "fed-42"}, domain.StudentRegistration{StudentEmail: "fed@uni.edu"}); err != nil {
		t.Fatalf("RegisterStudent returned error: %v", err)
	}

	if _, err := svc.LoginStudent(ctx, domain.StudentLogin{Email: "fed@uni.edu", Password: "anything1"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_ValidationSkipsStorage(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	_, err := svc.LoginStudent(ctx, domain.StudentLogin{Email: "ana@uni.edu", Password: "1234567"})
	ve, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "password" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}

	if _, err := svc.LoginCompany(ctx, domain.CompanyLogin{Email: "not-an-email", Password: "longenough1"}); err == nil {
		t.Fatalf("expected validation error for company login")
	}

	if store.authCalls != 0 {
		t.Fatalf("storage must not be invoked for invalid payloads, got %d calls", store.authCalls)
	}
}

func TestAuthService_PasswordPastBcryptLimit(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	reg := acmeRegistration()
	reg.Password = strings.Repeat("p", 80)
	_, err := svc.RegisterCompany(ctx, domain.AccountPatch{ID: "acme-owner"}, reg)
	ve, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "password" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
	if acc, _ := store.GetAccount(ctx, "acme-owner"); acc != nil {
		t.Fatalf("no account should be written for an invalid payload, got %+v", acc)
	}

	stored := strings.Repeat("s", 72)
	if _, err := svc.RegisterStudent(ctx, domain.AccountPatch{}, domain.StudentRegistration{
		StudentEmail: "ana@uni.edu", Password: stored,
	}); err != nil {
		t.Fatalf("RegisterStudent returned error: %v", err)
	}
	if _, err := svc.LoginStudent(ctx, domain.StudentLogin{Email: "ana@uni.edu", Password: stored}); err != nil {
		t.Fatalf("login with the stored password failed: %v", err)
	}

	_, err = svc.LoginStudent(ctx, domain.StudentLogin{Email: "ana@uni.edu", Password: stored + "DIFFERENT"})
	if _, ok := validation.As(err); !ok {
		t.Fatalf("expected validation error for over-long claim, got %v", err)
	}
	found, err := store.AuthenticateStudent(ctx, domain.StudentLogin{Email: "ana@uni.edu", Password: stored + "DIFFERENT"})
	if err != nil || found != nil {
		t.Fatalf("store must not match a claim that only shares the first 72 bytes, got %+v, %v", found, err)
	}
}

func TestAuthService_RegisterCompany_CompensatesNewAccount(t *testing.T) {
	svc, store := newTestService(nil)
	store.failCompanies = true
	ctx := context.Background()

	_, err := svc.RegisterCompany(ctx, domain.AccountPatch{ID: "new-acc"}, acmeRegistration())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	acc, err := store.GetAccount(ctx, "new-acc")
	if err != nil {
		t.Fatalf("GetAccount returned error: %v", err)
	}
	if acc != nil {
		t.Fatalf("expected freshly created account to be removed, got %+v", acc)
	}
}

func TestAuthService_RegisterCompany_KeepsExistingAccount(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	email := "owner@acme.com"
	if _, err := svc.SyncAccount(ctx, domain.AccountPatch{ID: "fed-1", Email: &email}); err != nil {
		t.Fatalf("SyncAccount returned error: %v", err)
	}

	store.failCompanies = true
	if _, err := svc.RegisterCompany(ctx, domain.AccountPatch{ID: "fed-1"}, acmeRegistration()); err == nil {
		t.Fatalf("expected error from failing profile create")
	}

	acc, err := store.GetAccount(ctx, "fed-1")
	if err != nil || acc == nil {
		t.Fatalf("expected pre-existing account to survive, got %+v, %v", acc, err)
	}
	if acc.Email != email {
		t.Fatalf("expected email to be preserved, got %q", acc.Email)
	}
}

func TestAuthService_RegisterStudent_TagsTenant(t *testing.T) {
	svc, _ := newTestService(nil)

	got, err := svc.RegisterStudent(context.Background(), domain.AccountPatch{}, domain.StudentRegistration{StudentEmail: "ana@uni.edu"})
	if err != nil {
		t.Fatalf("RegisterStudent returned error: %v", err)
	}
	if got.Account.TenantType != domain.TenantStudent {
		t.Fatalf("expected student tenant, got %s", got.Account.TenantType)
	}
	if got.Profile.AccountID != got.Account.ID {
		t.Fatalf("profile not linked to account: %+v", got)
	}
}

func TestAuthService_CurrentAccount(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.CurrentAccount(ctx, "missing"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	synced, err := svc.SyncAccount(ctx, domain.AccountPatch{ID: "fed-7"})
	if err != nil {
		t.Fatalf("SyncAccount returned error: %v", err)
	}
	acc, err := svc.CurrentAccount(ctx, synced.ID)
	if err != nil {
		t.Fatalf("CurrentAccount returned error: %v", err)
	}
	if acc.ID != "fed-7" || acc.TenantType != domain.TenantStudent {
		t.Fatalf("unexpected account: %+v", acc)
	}
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	sessions := newStubSessions()
	svc, _ := newTestService(sessions)
	ctx := context.Background()

	if _, err := svc.RegisterCompany(ctx, domain.AccountPatch{}, acmeRegistration()); err != nil {
		t.Fatalf("RegisterCompany returned error: %v", err)
	}
	session, err := svc.LoginCompany(ctx, domain.CompanyLogin{Email: "hr@acme.com", Password: "longenough1", CompanyCode: "ACME1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	sid := parseClaims(t, session.Token)["sid"].(string)
	if err := svc.Logout(ctx, sid); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if ok, _ := sessions.Exists(ctx, sid); ok {
		t.Fatalf("expected session %s to be revoked", sid)
	}
}

func TestAuthService_Logout_WithoutSessionStore(t *testing.T) {
	svc, _ := newTestService(nil)
	if err := svc.Logout(context.Background(), "anything"); err != nil {
		t.Fatalf("expected no-op logout, got %v", err)
	}
}
