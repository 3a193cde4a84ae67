// Package storage routes every storage call to exactly one backend. The
// facade adds no caching, retries or batching: it resolves a backend and
// passes the call through.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/ports"
	"github.com/campuslink/auth-portal/internal/pkg/metrics"
)

type BackendKind string

const (
	KindMemory   BackendKind = "memory"
	KindPostgres BackendKind = "postgres"
	KindMongo    BackendKind = "mongo"
)

// Backend pairs a store with the kind of system behind it.
type Backend struct {
	Kind  BackendKind
	Store ports.Storage
}

// SelectionPolicy decides when the facade consults the connectivity probe.
type SelectionPolicy string

const (
	// PolicyPinned resolves the backend once, at construction.
	PolicyPinned SelectionPolicy = "pinned"
	// PolicyPerCall asks the probe before every call. Data written to one
	// backend is not visible after a switch to the other.
	PolicyPerCall SelectionPolicy = "per_call"
)

// ParsePolicy maps a configuration value onto a SelectionPolicy. The empty
// string selects PolicyPinned.
func ParsePolicy(s string) (SelectionPolicy, error) {
	switch SelectionPolicy(s) {
	case "", PolicyPinned:
		return PolicyPinned, nil
	case PolicyPerCall:
		return PolicyPerCall, nil
	default:
		return "", fmt.Errorf("unknown storage selection policy %q", s)
	}
}

// StaticProbe reports a fixed connectivity state.
type StaticProbe bool

func (p StaticProbe) Connected(context.Context) bool { return bool(p) }

// Config wires the facade. Primary is optional; without it every call goes to
// Fallback.
type Config struct {
	Primary  *Backend
	Fallback Backend
	Probe    ports.ConnectivityProbe
	Policy   SelectionPolicy
}

// Facade implements ports.Storage by delegating to the resolved backend.
type Facade struct {
	primary  *Backend
	fallback Backend
	probe    ports.ConnectivityProbe
	policy   SelectionPolicy
	pinned   Backend
	log      zerolog.Logger
}

var _ ports.Storage = (*Facade)(nil)

func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Facade, error) {
	if cfg.Fallback.Store == nil {
		return nil, errors.New("storage: fallback backend is required")
	}
	if cfg.Primary != nil && cfg.Primary.Store == nil {
		return nil, errors.New("storage: primary backend has no store")
	}
	if cfg.Probe == nil {
		cfg.Probe = StaticProbe(cfg.Primary != nil)
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyPinned
	}

	f := &Facade{
		primary:  cfg.Primary,
		fallback: cfg.Fallback,
		probe:    cfg.Probe,
		policy:   cfg.Policy,
		log:      log,
	}

	if f.policy == PolicyPinned {
		f.pinned = f.choose(ctx)
		f.log.Info().
			Str("backend", string(f.pinned.Kind)).
			Str("policy", string(f.policy)).
			Msg("storage backend pinned")
	}
	return f, nil
}

// Active reports the backend the next call would be routed to.
func (f *Facade) Active(ctx context.Context) BackendKind {
	if f.policy == PolicyPinned {
		return f.pinned.Kind
	}
	if f.primary != nil && f.probe.Connected(ctx) {
		return f.primary.Kind
	}
	return f.fallback.Kind
}

func (f *Facade) choose(ctx context.Context) Backend {
	b := f.fallback
	if f.primary != nil && f.probe.Connected(ctx) {
		b = *f.primary
	}
	metrics.StorageBackendSelectedTotal.WithLabelValues(string(b.Kind)).Inc()
	return b
}

func (f *Facade) resolve(ctx context.Context) Backend {
	if f.policy == PolicyPinned {
		return f.pinned
	}
	b := f.choose(ctx)
	f.log.Debug().Str("backend", string(b.Kind)).Msg("storage backend resolved")
	return b
}

func call[T any](ctx context.Context, f *Facade, op string, fn func(ports.Storage) (T, error)) (T, error) {
	b := f.resolve(ctx)

	start := time.Now()
	out, err := fn(b.Store)
	metrics.StorageOperationDuration.WithLabelValues(string(b.Kind), op).Observe(time.Since(start).Seconds())

	if errors.Is(err, domain.ErrBackendUnavailable) {
		metrics.StorageOperationErrorsTotal.WithLabelValues(string(b.Kind), op).Inc()
		f.log.Error().Err(err).
			Str("backend", string(b.Kind)).
			Str("operation", op).
			Msg("storage backend unavailable")
	}
	return out, err
}

func (f *Facade) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return call(ctx, f, "get_account", func(s ports.Storage) (*domain.Account, error) {
		return s.GetAccount(ctx, id)
	})
}

func (f *Facade) UpsertAccount(ctx context.Context, patch domain.AccountPatch) (*domain.Account, error) {
	return call(ctx, f, "upsert_account", func(s ports.Storage) (*domain.Account, error) {
		return s.UpsertAccount(ctx, patch)
	})
}

func (f *Facade) DeleteAccount(ctx context.Context, id string) error {
	_, err := call(ctx, f, "delete_account", func(s ports.Storage) (struct{}, error) {
		return struct{}{}, s.DeleteAccount(ctx, id)
	})
	return err
}

func (f *Facade) CreateStudentProfile(ctx context.Context, accountID string, data domain.StudentRegistration) (*domain.StudentProfile, error) {
	return call(ctx, f, "create_student_profile", func(s ports.Storage) (*domain.StudentProfile, error) {
		return s.CreateStudentProfile(ctx, accountID, data)
	})
}

func (f *Facade) FindStudentByEmail(ctx context.Context, email string) (*domain.StudentAccount, error) {
	return call(ctx, f, "find_student_by_email", func(s ports.Storage) (*domain.StudentAccount, error) {
		return s.FindStudentByEmail(ctx, email)
	})
}

func (f *Facade) AuthenticateStudent(ctx context.Context, claim domain.StudentLogin) (*domain.StudentAccount, error) {
	return call(ctx, f, "authenticate_student", func(s ports.Storage) (*domain.StudentAccount, error) {
		return s.AuthenticateStudent(ctx, claim)
	})
}

func (f *Facade) CreateCompanyProfile(ctx context.Context, accountID string, data domain.CompanyRegistration) (*domain.CompanyProfile, error) {
	return call(ctx, f, "create_company_profile", func(s ports.Storage) (*domain.CompanyProfile, error) {
		return s.CreateCompanyProfile(ctx, accountID, data)
	})
}

func (f *Facade) FindCompanyByEmail(ctx context.Context, email string) (*domain.CompanyAccount, error) {
	return call(ctx, f, "find_company_by_email", func(s ports.Storage) (*domain.CompanyAccount, error) {
		return s.FindCompanyByEmail(ctx, email)
	})
}

func (f *Facade) AuthenticateCompany(ctx context.Context, claim domain.CompanyLogin) (*domain.CompanyAccount, error) {
	return call(ctx, f, "authenticate_company", func(s ports.Storage) (*domain.CompanyAccount, error) {
		return s.AuthenticateCompany(ctx, claim)
	})
}
