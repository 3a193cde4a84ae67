package credential

import (
	"testing"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/pkg/password"
)

func companyFixture(t *testing.T) (*password.BcryptHasher, *domain.CompanyAccount) {
	t.Helper()
	h := password.NewBcryptHasher()
	digest, err := h.Hash("longenough1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h, &domain.CompanyAccount{
		Profile: domain.CompanyProfile{
			CompanyName:  "Acme",
			CompanyCode:  "ACME1",
			CompanyEmail: "hr@acme.com",
			PasswordHash: digest,
		},
		Account: domain.Account{ID: "1", TenantType: domain.TenantCompany},
	}
}

func TestCheckCompany_AllThreeFactorsRequired(t *testing.T) {
	h, found := companyFixture(t)
	good := domain.CompanyLogin{Email: "hr@acme.com", Password: "longenough1", CompanyCode: "ACME1"}

	if CheckCompany(h, found, good) == nil {
		t.Fatalf("expected match with correct credentials")
	}

	badPassword := good
	badPassword.Password = "longenough2"
	if CheckCompany(h, found, badPassword) != nil {
		t.Fatalf("expected no match with wrong password")
	}

	badCode := good
	badCode.CompanyCode = "WRONG"
	if CheckCompany(h, found, badCode) != nil {
		t.Fatalf("expected no match with wrong company code")
	}

	lowerCode := good
	lowerCode.CompanyCode = "acme1"
	if CheckCompany(h, found, lowerCode) != nil {
		t.Fatalf("company code comparison must be case-sensitive")
	}

	if CheckCompany(h, nil, good) != nil {
		t.Fatalf("expected no match without a profile")
	}
}

func TestCheckStudent_FederatedProfileNeverMatches(t *testing.T) {
	h := password.NewBcryptHasher()
	found := &domain.StudentAccount{Profile: domain.StudentProfile{StudentEmail: "ana@uni.edu"}}

	if CheckStudent(h, found, domain.StudentLogin{Email: "ana@uni.edu", Password: "anything1"}) != nil {
		t.Fatalf("profile without password must never authenticate")
	}
}

func TestCheckStudent_Password(t *testing.T) {
	h := password.NewBcryptHasher()
	digest, _ := h.Hash("studentpass")
	found := &domain.StudentAccount{Profile: domain.StudentProfile{StudentEmail: "ana@uni.edu", PasswordHash: digest}}

	if CheckStudent(h, found, domain.StudentLogin{Email: "ana@uni.edu", Password: "studentpass"}) == nil {
		t.Fatalf("expected match")
	}
	if CheckStudent(h, found, domain.StudentLogin{Email: "ana@uni.edu", Password: "studentpasS"}) != nil {
		t.Fatalf("expected mismatch")
	}
}

func TestHashOptional(t *testing.T) {
	h := password.NewBcryptHasher()
	digest, err := HashOptional(h, "")
	if err != nil || digest != "" {
		t.Fatalf("expected no digest for empty password, got %q %v", digest, err)
	}
	digest, err = HashOptional(h, "studentpass")
	if err != nil || !h.Verify("studentpass", digest) {
		t.Fatalf("expected verifiable digest, got %q %v", digest, err)
	}
}
