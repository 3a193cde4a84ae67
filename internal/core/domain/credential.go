package domain

// StudentLogin is the credential claim submitted by a student.
type StudentLogin struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// CompanyLogin is the credential claim submitted by a company. CompanyCode is
// compared by exact, case-sensitive equality.
type CompanyLogin struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8,maxbytes=72"`
	CompanyCode string `json:"companyCode" validate:"required"`
}
