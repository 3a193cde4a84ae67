package domain

import "time"

// TenantType tags an account as belonging to one of the two tenant classes.
type TenantType string

const (
	TenantStudent TenantType = "student"
	TenantCompany TenantType = "company"
)

// Valid reports whether t is one of the known tenant classes.
func (t TenantType) Valid() bool {
	return t == TenantStudent || t == TenantCompany
}

// Account is the tenant-agnostic identity shared by students and companies.
type Account struct {
	ID              string     `json:"id"`
	Email           string     `json:"email,omitempty"`
	FirstName       string     `json:"firstName,omitempty"`
	LastName        string     `json:"lastName,omitempty"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty"`
	TenantType      TenantType `json:"userType"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AccountPatch is a partial account used by UpsertAccount.
// A nil field means "keep the stored value".
type AccountPatch struct {
	ID              string      `json:"id,omitempty"`
	Email           *string     `json:"email,omitempty"           validate:"omitempty,email"`
	FirstName       *string     `json:"firstName,omitempty"`
	LastName        *string     `json:"lastName,omitempty"`
	ProfileImageURL *string     `json:"profileImageUrl,omitempty"`
	TenantType      *TenantType `json:"userType,omitempty"        validate:"omitempty,oneof=student company"`
}

// Apply merges the patch onto a copy of base and returns it. Timestamps are
// left to the caller.
func (p AccountPatch) Apply(base Account) Account {
	out := base
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.ProfileImageURL != nil {
		out.ProfileImageURL = *p.ProfileImageURL
	}
	if p.TenantType != nil {
		out.TenantType = *p.TenantType
	}
	if out.TenantType == "" {
		out.TenantType = TenantStudent
	}
	return out
}
