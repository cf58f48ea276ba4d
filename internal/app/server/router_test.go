package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/domain/users/userstest"
	"tikidan/internal/platform/config"
	"tikidan/internal/platform/db"
	"tikidan/internal/platform/metrics"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Config{
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		Environment:        "test",
		SeedAdminEmail:     "admin@example.com",
		SeedAdminPassword:  "admin-pass",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	resolver := rbac.NewResolver(rbac.Default())
	usersSvc := users.NewService(userstest.NewDirectory(), resolver.Registry())
	if err := db.Seed(context.Background(), usersSvc, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	handler := NewRouter(Deps{
		Config:  cfg,
		Users:   usersSvc,
		Auth:    auth.NewService(usersSvc, issuer),
		Gate:    rbac.NewGate(issuer, usersSvc, resolver),
		Metrics: metrics.New(),
	})
	return &testServer{t: t, handler: handler}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rec.Code, env
}

func (s *testServer) login(email, password string) (string, map[string]any) {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	if status != http.StatusOK {
		s.t.Fatalf("login %s: expected 200, got %d", email, status)
	}
	var session struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		s.t.Fatalf("decode session: %v", err)
	}
	return session.Token, session.User
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		if status, _ := s.do(http.MethodGet, path, "", nil); status != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, status)
		}
	}
}

func TestAdminLoginReturnsPermissions(t *testing.T) {
	s := newTestServer(t, nil)
	token, user := s.login("ADMIN@example.com", "admin-pass")
	if token == "" {
		t.Fatal("expected token")
	}
	if user["role"] != rbac.RoleAdmin || user["displayName"] != "Administrator" {
		t.Fatalf("unexpected user %v", user)
	}
	perms, _ := user["permissions"].([]any)
	for _, p := range perms {
		if p == rbac.CapMeetings {
			t.Fatal("admin must not hold meetings")
		}
	}

	if status, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "wrong"}); status != http.StatusUnauthorized || env.Error.Code != "invalid_credentials" {
		t.Fatalf("expected invalid credentials, got %d", status)
	}
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/api/v1/auth/me", "/api/v1/roles", "/api/v1/auth/employees"} {
		status, env := s.do(http.MethodGet, path, "", nil)
		if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "unauthorized" {
			t.Fatalf("%s: expected 401, got %d", path, status)
		}
	}
	if status, _ := s.do(http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", status)
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken, admin := s.login("admin@example.com", "admin-pass")

	status, env := s.do(http.MethodPost, "/api/v1/auth/register-employee", adminToken, map[string]any{
		"email":             "rep@example.com",
		"password":          "rep-pass",
		"role":              rbac.RoleTerritoryManager,
		"firstName":         "Field",
		"lastName":          "Rep",
		"department":        "territory",
		"reportsTo":         admin["id"],
		"customPermissions": []string{rbac.CapabilityDashboard, rbac.CapClients},
	})
	if status != http.StatusCreated {
		t.Fatalf("create employee: expected 201, got %d (%+v)", status, env.Error)
	}
	created := decode[map[string]any](t, env)
	repID := created["id"].(string)

	repToken, _ := s.login("rep@example.com", "rep-pass")
	status, env = s.do(http.MethodGet, "/api/v1/auth/user-permissions", repToken, nil)
	if status != http.StatusOK {
		t.Fatalf("user-permissions: expected 200, got %d", status)
	}
	perms := decode[struct {
		Permissions []string `json:"permissions"`
		Role        string   `json:"role"`
	}](t, env)
	if strings.Join(perms.Permissions, ",") != "dashboard,clients" || perms.Role != rbac.RoleTerritoryManager {
		t.Fatalf("unexpected permissions %+v", perms)
	}

	status, env = s.do(http.MethodGet, "/api/v1/auth/me", repToken, nil)
	me := decode[map[string]any](t, env)
	if status != http.StatusOK || me["roleLabel"] != "Territory Manager - Territory" {
		t.Fatalf("unexpected me %d %v", status, me)
	}

	if status, _ := s.do(http.MethodGet, "/api/v1/auth/employees", repToken, nil); status != http.StatusForbidden {
		t.Fatalf("non-admin list: expected 403, got %d", status)
	}
	// The custom list replaces the role grants, so team is gone.
	if status, _ := s.do(http.MethodGet, "/api/v1/auth/team-members", repToken, nil); status != http.StatusForbidden {
		t.Fatalf("team without capability: expected 403, got %d", status)
	}

	status, env = s.do(http.MethodGet, "/api/v1/auth/team-members", adminToken, nil)
	team := decode[[]map[string]any](t, env)
	if status != http.StatusOK || len(team) != 1 || team[0]["id"] != repID {
		t.Fatalf("unexpected team %d %v", status, team)
	}

	status, env = s.do(http.MethodGet, "/api/v1/auth/employees/"+repID+"/reporting-chain", adminToken, nil)
	chain := decode[[]map[string]any](t, env)
	if status != http.StatusOK || len(chain) != 1 || chain[0]["id"] != admin["id"] {
		t.Fatalf("unexpected chain %d %v", status, chain)
	}

	// Promotion applies on the rep's very next request with the same token.
	status, _ = s.do(http.MethodPut, "/api/v1/auth/employees/"+repID, adminToken, map[string]any{"role": rbac.RoleAdmin})
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", status)
	}
	if status, _ := s.do(http.MethodGet, "/api/v1/auth/employees", repToken, nil); status != http.StatusOK {
		t.Fatalf("promoted list: expected 200, got %d", status)
	}

	status, env = s.do(http.MethodDelete, "/api/v1/auth/employees/"+admin["id"].(string), adminToken, nil)
	if status != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("self delete: expected 400, got %d", status)
	}

	if status, _ := s.do(http.MethodDelete, "/api/v1/auth/employees/"+repID, adminToken, nil); status != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", status)
	}
	if status, _ := s.do(http.MethodGet, "/api/v1/auth/me", repToken, nil); status != http.StatusUnauthorized {
		t.Fatalf("deleted user: expected 401, got %d", status)
	}
	if status, _ := s.do(http.MethodGet, "/api/v1/auth/employees/"+repID, adminToken, nil); status != http.StatusNotFound {
		t.Fatalf("deleted user lookup: expected 404, got %d", status)
	}
}

func TestRegisterEmployeeValidation(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken, _ := s.login("admin@example.com", "admin-pass")

	status, env := s.do(http.MethodPost, "/api/v1/auth/register-employee", adminToken, map[string]any{
		"email":             "x@example.com",
		"password":          "secret1",
		"role":              "overlord",
		"firstName":         "X",
		"customPermissions": []string{rbac.Wildcard},
	})
	if status != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation error, got %d", status)
	}
	fields, _ := env.Error.Details["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected two field issues, got %v", fields)
	}

	status, env = s.do(http.MethodPost, "/api/v1/auth/register-employee", adminToken, map[string]any{
		"email": "admin@example.com", "password": "secret1", "role": rbac.RoleManager, "firstName": "Dup",
	})
	if status != http.StatusConflict || env.Error.Code != "email_taken" {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestSelfSignup(t *testing.T) {
	closed := newTestServer(t, nil)
	body := map[string]string{"name": "New User", "email": "new@example.com", "password": "secret1"}
	if status, env := closed.do(http.MethodPost, "/api/v1/auth/register", "", body); status != http.StatusForbidden || env.Error.Code != "signup_disabled" {
		t.Fatalf("expected signup disabled, got %d", status)
	}

	open := newTestServer(t, func(c *config.Config) { c.AllowSelfSignup = true })
	status, env := open.do(http.MethodPost, "/api/v1/auth/register", "", body)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	session := decode[struct {
		Token string `json:"token"`
		User  struct {
			Role        string   `json:"role"`
			Permissions []string `json:"permissions"`
		} `json:"user"`
	}](t, env)
	if session.Token == "" || session.User.Role != rbac.RoleUser {
		t.Fatalf("unexpected session %+v", session)
	}
	if strings.Join(session.User.Permissions, ",") != "dashboard,team,expenses_view,expenses_create,profile,my_leaves" {
		t.Fatalf("unexpected default permissions %v", session.User.Permissions)
	}
}

func TestRoleListings(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.login("admin@example.com", "admin-pass")

	status, env := s.do(http.MethodGet, "/api/v1/roles", token, nil)
	roles := decode[[]map[string]any](t, env)
	if status != http.StatusOK || len(roles) != 17 {
		t.Fatalf("expected 17 roles, got %d %d", status, len(roles))
	}

	status, env = s.do(http.MethodGet, "/api/v1/roles?department=", token, nil)
	unplaced := decode[[]map[string]any](t, env)
	if status != http.StatusOK || len(unplaced) != 17 {
		t.Fatalf("expected every role without a department, got %d", len(unplaced))
	}

	status, env = s.do(http.MethodGet, "/api/v1/roles?department=sales", token, nil)
	sales := decode[[]map[string]any](t, env)
	if status != http.StatusOK || len(sales) != 0 {
		t.Fatalf("expected no roles placed in sales, got %v", sales)
	}

	status, env = s.do(http.MethodGet, "/api/v1/departments", token, nil)
	departments := decode[[]map[string]any](t, env)
	if status != http.StatusOK || len(departments) != 15 {
		t.Fatalf("expected 15 departments, got %d", len(departments))
	}

	status, env = s.do(http.MethodGet, "/api/v1/auth/available-permissions", token, nil)
	catalogue := decode[[]map[string]any](t, env)
	if status != http.StatusOK || catalogue[0]["value"] != rbac.CapabilityDashboard {
		t.Fatalf("unexpected catalogue %v", catalogue)
	}
}
