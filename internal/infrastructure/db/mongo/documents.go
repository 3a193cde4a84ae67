package mongo

import (
	"time"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

const (
	collectionUsers     = "users"
	collectionStudents  = "students"
	collectionCompanies = "companies"
)

// Account ids are opaque strings (federated identities supply their own), so
// _id is stored as a string rather than an ObjectID.
type userDoc struct {
	ID              string    `bson:"_id"`
	Email           string    `bson:"email,omitempty"`
	FirstName       string    `bson:"first_name,omitempty"`
	LastName        string    `bson:"last_name,omitempty"`
	ProfileImageURL string    `bson:"profile_image_url,omitempty"`
	UserType        string    `bson:"user_type"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

// studentDoc references its account through user_id; User is only populated
// by the $lookup stage of the email queries.
type studentDoc struct {
	ID             string    `bson:"_id"`
	UserID         string    `bson:"user_id"`
	StudentEmail   string    `bson:"student_email,omitempty"`
	Password       string    `bson:"password,omitempty"`
	University     string    `bson:"university,omitempty"`
	Major          string    `bson:"major,omitempty"`
	GraduationYear string    `bson:"graduation_year,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
	User           *userDoc  `bson:"user,omitempty"`
}

type companyDoc struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	CompanyName  string    `bson:"company_name"`
	CompanyCode  string    `bson:"company_code"`
	CompanyEmail string    `bson:"company_email"`
	Password     string    `bson:"password"`
	IsVerified   bool      `bson:"is_verified"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
	User         *userDoc  `bson:"user,omitempty"`
}

func (d userDoc) toDomain() domain.Account {
	return domain.Account{
		ID:              d.ID,
		Email:           d.Email,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		ProfileImageURL: d.ProfileImageURL,
		TenantType:      domain.TenantType(d.UserType),
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

func (d studentDoc) toDomain() domain.StudentProfile {
	return domain.StudentProfile{
		ID:             d.ID,
		AccountID:      d.UserID,
		StudentEmail:   d.StudentEmail,
		PasswordHash:   d.Password,
		University:     d.University,
		Major:          d.Major,
		GraduationYear: d.GraduationYear,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func (d companyDoc) toDomain() domain.CompanyProfile {
	return domain.CompanyProfile{
		ID:           d.ID,
		AccountID:    d.UserID,
		CompanyName:  d.CompanyName,
		CompanyCode:  d.CompanyCode,
		CompanyEmail: d.CompanyEmail,
		PasswordHash: d.Password,
		IsVerified:   d.IsVerified,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}
