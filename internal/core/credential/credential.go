// Package credential holds the verification rules shared by every storage
// backend, so that the three implementations cannot drift apart.
package credential

import (
	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

// CheckStudent returns found when claim proves ownership of it, or nil.
// Profiles without a password hash (federated logins) never match.
func CheckStudent(h ports.PasswordHasher, found *domain.StudentAccount, claim domain.StudentLogin) *domain.StudentAccount {
	if found == nil || !found.Profile.HasPassword() {
		return nil
	}
	if !h.Verify(claim.Password, found.Profile.PasswordHash) {
		return nil
	}
	return found
}

// CheckCompany returns found when the password verifies and the claimed
// company code equals the stored one exactly. The code is compared only after
// the password check succeeds.
func CheckCompany(h ports.PasswordHasher, found *domain.CompanyAccount, claim domain.CompanyLogin) *domain.CompanyAccount {
	if found == nil {
		return nil
	}
	if !h.Verify(claim.Password, found.Profile.PasswordHash) {
		return nil
	}
	if found.Profile.CompanyCode != claim.CompanyCode {
		return nil
	}
	return found
}

// HashOptional hashes plaintext unless it is empty, in which case no digest
// is produced.
func HashOptional(h ports.PasswordHasher, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return h.Hash(plaintext)
}
