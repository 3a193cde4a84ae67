package ports

import (
	"context"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

// Storage is the persistence contract every backend implements with the same
// semantics. Lookups report "not found" as a nil result with a nil error.
type Storage interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	// UpsertAccount merges patch onto the stored account with the same ID, or
	// creates a new one (generating an ID when patch.ID is empty).
	UpsertAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error)
	// DeleteAccount removes an account. It is only used to undo a partially
	// completed registration.
	DeleteAccount(ctx context.Context, id string) error

	CreateStudentProfile(ctx context.Context, accountID string, data domain.StudentRegistration) (*domain.StudentProfile, error)
	FindStudentByEmail(ctx context.Context, email string) (*domain.StudentAccount, error)
	AuthenticateStudent(ctx context.Context, claim domain.StudentLogin) (*domain.StudentAccount, error)

	CreateCompanyProfile(ctx context.Context, accountID string, data domain.CompanyRegistration) (*domain.CompanyProfile, error)
	FindCompanyByEmail(ctx context.Context, email string) (*domain.CompanyAccount, error)
	AuthenticateCompany(ctx context.Context, claim domain.CompanyLogin) (*domain.CompanyAccount, error)
}

// ConnectivityProbe reports whether the primary external store is reachable.
type ConnectivityProbe interface {
	Connected(ctx context.Context) bool
}

// PasswordHasher produces and checks self-describing salted digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
