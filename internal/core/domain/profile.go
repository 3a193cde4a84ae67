package domain

import "time"

// StudentProfile extends an Account whose tenant is student.
type StudentProfile struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"userId"`
	StudentEmail   string    `json:"studentEmail,omitempty"`
	PasswordHash   string    `json:"-"`
	University     string    `json:"university,omitempty"`
	Major          string    `json:"major,omitempty"`
	GraduationYear string    `json:"graduationYear,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasPassword is false for profiles created through federated login.
func (s *StudentProfile) HasPassword() bool {
	return s.PasswordHash != ""
}

// CompanyProfile extends an Account whose tenant is company.
type CompanyProfile struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"userId"`
	CompanyName  string    `json:"companyName"`
	CompanyCode  string    `json:"companyCode"`
	CompanyEmail string    `json:"companyEmail"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StudentAccount is a student profile joined to its owning account.
type StudentAccount struct {
	Profile StudentProfile
	Account Account
}

// CompanyAccount is a company profile joined to its owning account.
type CompanyAccount struct {
	Profile CompanyProfile
	Account Account
}

// StudentRegistration carries the data needed to create a student profile.
// An empty Password means the profile has no direct credentials.
type StudentRegistration struct {
	StudentEmail   string `json:"studentEmail"   validate:"omitempty,email"`
	Password       string `json:"password"       validate:"omitempty,min=8,maxbytes=72"`
	University     string `json:"university"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduationYear"`
}

// CompanyRegistration carries the data needed to create a company profile.
type CompanyRegistration struct {
	CompanyName  string `json:"companyName"  validate:"required"`
	CompanyCode  string `json:"companyCode"  validate:"required"`
	CompanyEmail string `json:"companyEmail" validate:"required,email"`
	Password     string `json:"password"     validate:"required,min=8,maxbytes=72"`
}
