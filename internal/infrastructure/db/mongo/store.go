package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/auth-portal/internal/core/credential"
	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

// Store implements ports.Storage on MongoDB. Profiles embed the id of their
// account in user_id and are joined back with a $lookup stage. Uniqueness of
// student_email, company_code and company_email is enforced by the indexes
// created in EnsureIndexes.
type Store struct {
	users     *mongo.Collection
	students  *mongo.Collection
	companies *mongo.Collection
	hasher    ports.PasswordHasher
	now       func() time.Time
}

func NewStore(db *mongo.Database, hasher ports.PasswordHasher) *Store {
	return &Store{
		users:     db.Collection(collectionUsers),
		students:  db.Collection(collectionStudents),
		companies: db.Collection(collectionCompanies),
		hasher:    hasher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	studentIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}
	if _, err := s.students.Indexes().CreateMany(ctx, studentIdx); err != nil {
		return fmt.Errorf("student indexes: %w", err)
	}

	companyIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "company_email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}
	if _, err := s.companies.Indexes().CreateMany(ctx, companyIdx); err != nil {
		return fmt.Errorf("company indexes: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classify("get account", err)
	}

	acc := doc.toDomain()
	return &acc, nil
}

func (s *Store) UpsertAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error) {
	id := patch.ID
	if id == "" {
		id = primitive.NewObjectID().Hex()
	}

	now := s.now()
	set := bson.M{"updated_at": now}
	setOnInsert := bson.M{"created_at": now}

	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.ProfileImageURL != nil {
		set["profile_image_url"] = *patch.ProfileImageURL
	}
	if patch.TenantType != nil {
		set["user_type"] = string(*patch.TenantType)
	} else {
		setOnInsert["user_type"] = string(domain.TenantStudent)
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, classify("upsert account", err)
	}

	acc := doc.toDomain()
	return &acc, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return classify("delete account", err)
	}
	return nil
}

// accountExists guards profile inserts; MongoDB has no foreign keys.
func (s *Store) accountExists(ctx context.Context, id string) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := s.users.FindOne(ctx, bson.M{"_id": id}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return classify("check account", err)
	}
	return nil
}

func (s *Store) CreateStudentProfile(ctx context.Context, accountID string, data domain.StudentRegistration) (*domain.StudentProfile, error) {
	hash, err := credential.HashOptional(s.hasher, data.Password)
	if err != nil {
		return nil, fmt.Errorf("hash student password: %w", err)
	}
	if err := s.accountExists(ctx, accountID); err != nil {
		return nil, err
	}

	now := s.now()
	doc := studentDoc{
		ID:             primitive.NewObjectID().Hex(),
		UserID:         accountID,
		StudentEmail:   data.StudentEmail,
		Password:       hash,
		University:     data.University,
		Major:          data.Major,
		GraduationYear: data.GraduationYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.students.InsertOne(ctx, doc); err != nil {
		return nil, classify("create student profile", err)
	}

	profile := doc.toDomain()
	return &profile, nil
}

func (s *Store) FindStudentByEmail(ctx context.Context, email string) (*domain.StudentAccount, error) {
	var doc studentDoc
	found, err := findOneWithUser(ctx, s.students, bson.D{{Key: "student_email", Value: email}}, &doc)
	if err != nil {
		return nil, classify("find student by email", err)
	}
	if !found {
		return nil, nil
	}

	return &domain.StudentAccount{Profile: doc.toDomain(), Account: doc.User.toDomain()}, nil
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
	if err := s.accountExists(ctx, accountID); err != nil {
		return nil, err
	}

	now := s.now()
	doc := companyDoc{
		ID:           primitive.NewObjectID().Hex(),
		UserID:       accountID,
		CompanyName:  data.CompanyName,
		CompanyCode:  data.CompanyCode,
		CompanyEmail: data.CompanyEmail,
		Password:     hash,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.companies.InsertOne(ctx, doc); err != nil {
		return nil, classify("create company profile", err)
	}

	profile := doc.toDomain()
	return &profile, nil
}

func (s *Store) FindCompanyByEmail(ctx context.Context, email string) (*domain.CompanyAccount, error) {
	var doc companyDoc
	found, err := findOneWithUser(ctx, s.companies, bson.D{{Key: "company_email", Value: email}}, &doc)
	if err != nil {
		return nil, classify("find company by email", err)
	}
	if !found {
		return nil, nil
	}

	return &domain.CompanyAccount{Profile: doc.toDomain(), Account: doc.User.toDomain()}, nil
}

func (s *Store) AuthenticateCompany(ctx context.Context, claim domain.CompanyLogin) (*domain.CompanyAccount, error) {
	found, err := s.FindCompanyByEmail(ctx, claim.Email)
	if err != nil {
		return nil, err
	}
	return credential.CheckCompany(s.hasher, found, claim), nil
}

// findOneWithUser decodes the first profile matching filter whose owning
// account still exists, with the account embedded under "user".
func findOneWithUser(ctx context.Context, coll *mongo.Collection, filter bson.D, out any) (bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$limit", Value: 1}},
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return false, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return false, cur.Err()
	}
	if err := cur.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// classify maps driver errors onto the storage error taxonomy.
func classify(op string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
