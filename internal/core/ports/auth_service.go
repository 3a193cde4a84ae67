package ports

import (
	"context"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

// StudentSession is returned by a successful student login.
type StudentSession struct {
	Token   string
	Student *domain.StudentAccount
}

// CompanySession is returned by a successful company login.
type CompanySession struct {
	Token   string
	Company *domain.CompanyAccount
}

// AuthService defines the credential use cases exposed to the transport layer.
type AuthService interface {
	LoginStudent(ctx context.Context, claim domain.StudentLogin) (*StudentSession, error)
	LoginCompany(ctx context.Context, claim domain.CompanyLogin) (*CompanySession, error)
	CurrentAccount(ctx context.Context, accountID string) (*domain.Account, error)
	Logout(ctx context.Context, sessionID string) error
}

// RegistrationService is used by operator tooling; the public HTTP surface
// does not expose registration.
type RegistrationService interface {
	RegisterStudent(ctx context.Context, account domain.AccountPatch, data domain.StudentRegistration) (*domain.StudentAccount, error)
	RegisterCompany(ctx context.Context, account domain.AccountPatch, data domain.CompanyRegistration) (*domain.CompanyAccount, error)
	SyncAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error)
}
