package handler

import "github.com/campuslink/auth-portal/internal/core/domain"

// --- Request / Response types ---

type studentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type companyLoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyCode string `json:"companyCode"`
}

// studentView is a student profile with its owning account nested under
// "user".
type studentView struct {
	domain.StudentProfile
	User domain.Account `json:"user"`
}

type companyView struct {
	domain.CompanyProfile
	User domain.Account `json:"user"`
}

type studentLoginResponse struct {
	Message string         `json:"message"`
	User    domain.Account `json:"user"`
	Student studentView    `json:"student"`
	Token   string         `json:"token"`
}

type companyLoginResponse struct {
	Message string         `json:"message"`
	User    domain.Account `json:"user"`
	Company companyView    `json:"company"`
	Token   string         `json:"token"`
}
