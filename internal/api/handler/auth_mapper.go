package handler

import (
	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

// --- Request → Service input ---

func toStudentLogin(req studentLoginRequest) domain.StudentLogin {
	return domain.StudentLogin{Email: req.Email, Password: req.Password}
}

func toCompanyLogin(req companyLoginRequest) domain.CompanyLogin {
	return domain.CompanyLogin{
		Email:       req.Email,
		Password:    req.Password,
		CompanyCode: req.CompanyCode,
	}
}

// --- Service output → Response ---

func toStudentLoginResponse(s *ports.StudentSession) studentLoginResponse {
	return studentLoginResponse{
		Message: "Student login successful",
		User:    s.Student.Account,
		Student: studentView{StudentProfile: s.Student.Profile, User: s.Student.Account},
		Token:   s.Token,
	}
}

func toCompanyLoginResponse(s *ports.CompanySession) companyLoginResponse {
	return companyLoginResponse{
		Message: "Company login successful",
		User:    s.Company.Account,
		Company: companyView{CompanyProfile: s.Company.Profile, User: s.Company.Account},
		Token:   s.Token,
	}
}
