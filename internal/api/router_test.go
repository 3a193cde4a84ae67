package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/core/service"
	"github.com/campuslink/auth-portal/internal/infrastructure/db/memory"
	"github.com/campuslink/auth-portal/internal/pkg/password"
)

func newTestRouter(t *testing.T) (*service.AuthService, http.Handler) {
	t.Helper()
	store := memory.NewStore(password.NewBcryptHasher())
	svc := service.NewAuthService(store, nil, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.RegisterCompany(context.Background(), domain.AccountPatch{}, domain.CompanyRegistration{
		CompanyName: "Acme", CompanyCode: "ACME1", CompanyEmail: "hr@acme.com", Password: "longenough1",
	}); err != nil {
		t.Fatalf("seed company: %v", err)
	}

	return svc, NewRouter(Deps{AuthService: svc, JWTSecret: "secret", Log: zerolog.Nop()})
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CompanyLoginThenCurrentUser(t *testing.T) {
	_, r := newTestRouter(t)

	rec := do(r, http.MethodPost, "/api/auth/company/login",
		`{"email":"hr@acme.com","password":"longenough1","companyCode":"ACME1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("expected token in response: %v", err)
	}

	rec = do(r, http.MethodGet, "/api/auth/user", "", login.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"userType":"company"`) {
		t.Fatalf("unexpected account payload: %s", rec.Body.String())
	}
}

func TestRouter_WrongCompanyCode(t *testing.T) {
	_, r := newTestRouter(t)

	rec := do(r, http.MethodPost, "/api/auth/company/login",
		`{"email":"hr@acme.com","password":"longenough1","companyCode":"acme1"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_ValidationError(t *testing.T) {
	_, r := newTestRouter(t)

	rec := do(r, http.MethodPost, "/api/auth/student/login", `{"email":"ana@uni.edu","password":"1234567"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"password"`) {
		t.Fatalf("expected password field error, got %s", rec.Body.String())
	}
}

func TestRouter_RegisterNotImplemented(t *testing.T) {
	_, r := newTestRouter(t)

	for _, path := range []string{"/api/auth/student/register", "/api/auth/company/register"} {
		if rec := do(r, http.MethodPost, path, `{}`, ""); rec.Code != http.StatusNotImplemented {
			t.Fatalf("%s: expected 501, got %d", path, rec.Code)
		}
	}
}

func TestRouter_CurrentUserRequiresToken(t *testing.T) {
	_, r := newTestRouter(t)

	if rec := do(r, http.MethodGet, "/api/auth/user", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	_, r := newTestRouter(t)

	rec := do(r, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
