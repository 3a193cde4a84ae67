package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campuslink/auth-portal/internal/core/credential"
	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

const accountColumns = `id, email, first_name, last_name, profile_image_url, user_type, created_at, updated_at`

const (
	upsertAccountSQL = `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, user_type, created_at, updated_at)
		VALUES ($1, $2::varchar, $3::varchar, $4::varchar, $5::varchar, COALESCE($6::varchar, 'student'), $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			email             = COALESCE($2::varchar, users.email),
			first_name        = COALESCE($3::varchar, users.first_name),
			last_name         = COALESCE($4::varchar, users.last_name),
			profile_image_url = COALESCE($5::varchar, users.profile_image_url),
			user_type         = COALESCE($6::varchar, users.user_type),
			updated_at        = $7
		RETURNING ` + accountColumns

	insertStudentSQL = `
		INSERT INTO students (id, user_id, student_email, password, university, major, graduation_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	findStudentSQL = `
		SELECT s.id, s.user_id, s.student_email, s.password, s.university, s.major, s.graduation_year, s.created_at, s.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.profile_image_url, u.user_type, u.created_at, u.updated_at
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE s.student_email = $1
		LIMIT 1`

	insertCompanySQL = `
		INSERT INTO companies (id, user_id, company_name, company_code, company_email, password, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $7)`

	findCompanySQL = `
		SELECT c.id, c.user_id, c.company_name, c.company_code, c.company_email, c.password, c.is_verified, c.created_at, c.updated_at,
		       u.id, u.email, u.first_name, u.last_name, u.profile_image_url, u.user_type, u.created_at, u.updated_at
		FROM companies c
		JOIN users u ON u.id = c.user_id
		WHERE c.company_email = $1
		LIMIT 1`
)

// Store implements ports.Storage against the relational schema in
// migrations/. Profiles reference accounts through the user_id foreign key;
// uniqueness is enforced by the table constraints.
type Store struct {
	db     DBTX
	hasher ports.PasswordHasher
	now    func() time.Time
	newID  func() string
}

func NewStore(db DBTX, hasher ports.PasswordHasher) *Store {
	return &Store{
		db:     db,
		hasher: hasher,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	row := s.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id)

	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get account", err)
	}
	return acc, nil
}

func (s *Store) UpsertAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error) {
	id := patch.ID
	if id == "" {
		id = s.newID()
	}

	var tenant *string
	if patch.TenantType != nil {
		t := string(*patch.TenantType)
		tenant = &t
	}

	row := s.db.QueryRow(ctx, upsertAccountSQL,
		id, patch.Email, patch.FirstName, patch.LastName, patch.ProfileImageURL, tenant, s.now())

	acc, err := scanAccount(row)
	if err != nil {
		return nil, classify("upsert account", err)
	}
	return acc, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return classify("delete account", err)
	}
	return nil
}

func (s *Store) CreateStudentProfile(ctx context.Context, accountID string, data domain.StudentRegistration) (*domain.StudentProfile, error) {
	hash, err := credential.HashOptional(s.hasher, data.Password)
	if err != nil {
		return nil, fmt.Errorf("hash student password: %w", err)
	}

	now := s.now()
	profile := &domain.StudentProfile{
		ID:             s.newID(),
		AccountID:      accountID,
		StudentEmail:   data.StudentEmail,
		PasswordHash:   hash,
		University:     data.University,
		Major:          data.Major,
		GraduationYear: data.GraduationYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = s.db.Exec(ctx, insertStudentSQL,
		profile.ID, accountID,
		nullable(profile.StudentEmail), nullable(profile.PasswordHash),
		nullable(profile.University), nullable(profile.Major), nullable(profile.GraduationYear),
		now)
	if err != nil {
		return nil, classify("create student profile", err)
	}
	return profile, nil
}

func (s *Store) FindStudentByEmail(ctx context.Context, email string) (*domain.StudentAccount, error) {
	var out domain.StudentAccount
	var studentEmail, hash, university, major, year *string
	p := &out.Profile

	acc, err := scanAccountAfter(s.db.QueryRow(ctx, findStudentSQL, email),
		&p.ID, &p.AccountID, &studentEmail, &hash, &university, &major, &year, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find student by email", err)
	}

	p.StudentEmail = deref(studentEmail)
	p.PasswordHash = deref(hash)
	p.University = deref(university)
	p.Major = deref(major)
	p.GraduationYear = deref(year)
	out.Account = *acc
	return &out, nil
}

func (s *Store) AuthenticateStudent(ctx context.Context, claim domain.StudentLogin) (*domain.StudentAccount, error) {
	found, err := s.FindStudentByEmail(ctx, claim.Email)
	if err != nil {
		return nil, err
	}
	return credential.CheckStudent(s.hasher, found, claim), nil
}

func (s *Store) CreateCompanyProfile(ctx context.Context, accountID string, data domain.CompanyRegistration) (*domain.CompanyProfile, error) {
	hash, err := s.hasher.Hash(data.Password)
	if err != nil {
		return nil, fmt.Errorf("hash company password: %w", err)
	}

	now := s.now()
	profile := &domain.CompanyProfile{
		ID:           s.newID(),
		AccountID:    accountID,
		CompanyName:  data.CompanyName,
		CompanyCode:  data.CompanyCode,
		CompanyEmail: data.CompanyEmail,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.Exec(ctx, insertCompanySQL,
		profile.ID, accountID, profile.CompanyName, profile.CompanyCode, profile.CompanyEmail, hash, now)
	if err != nil {
		return nil, classify("create company profile", err)
	}
	return profile, nil
}

func (s *Store) FindCompanyByEmail(ctx context.Context, email string) (*domain.CompanyAccount, error) {
	var out domain.CompanyAccount
	p := &out.Profile

	acc, err := scanAccountAfter(s.db.QueryRow(ctx, findCompanySQL, email),
		&p.ID, &p.AccountID, &p.CompanyName, &p.CompanyCode, &p.CompanyEmail, &p.PasswordHash, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find company by email", err)
	}

	out.Account = *acc
	return &out, nil
}

func (s *Store) AuthenticateCompany(ctx context.Context, claim domain.CompanyLogin) (*domain.CompanyAccount, error) {
	found, err := s.FindCompanyByEmail(ctx, claim.Email)
	if err != nil {
		return nil, err
	}
	return credential.CheckCompany(s.hasher, found, claim), nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	return scanAccountAfter(row)
}

// scanAccountAfter scans the leading destinations in prefix, followed by the
// eight account columns.
func scanAccountAfter(row pgx.Row, prefix ...any) (*domain.Account, error) {
	var acc domain.Account
	var email, first, last, image *string
	var tenant string
	dest := append(prefix, &acc.ID, &email, &first, &last, &image, &tenant, &acc.CreatedAt, &acc.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	acc.Email = deref(email)
	acc.FirstName = deref(first)
	acc.LastName = deref(last)
	acc.ProfileImageURL = deref(image)
	acc.TenantType = domain.TenantType(tenant)
	return &acc, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
