package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/requestctx"
	"tikidan/internal/transport/http/api"
	"tikidan/internal/transport/http/shared"
)

type Handler struct {
	Users           *users.Service
	Auth            *auth.Service
	Resolver        *rbac.Resolver
	AllowSelfSignup bool
}

func NewHandler(usersSvc *users.Service, authSvc *auth.Service, resolver *rbac.Resolver, allowSelfSignup bool) *Handler {
	return &Handler{Users: usersSvc, Auth: authSvc, Resolver: resolver, AllowSelfSignup: allowSelfSignup}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
// loginLimit throttles credential attempts.
func (h *Handler) RegisterPublicRoutes(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.With(loginLimit).Post("/auth/login", h.handleLogin)
	r.With(loginLimit).Post("/auth/register", h.handleRegister)
}

// RegisterRoutes mounts the endpoints for any authenticated user. teamAccess
// guards the team listing.
func (h *Handler) RegisterRoutes(r chi.Router, teamAccess func(http.Handler) http.Handler) {
	r.Get("/auth/me", h.handleMe)
	r.Get("/auth/user-permissions", h.handleUserPermissions)
	r.With(teamAccess).Get("/auth/team-members", h.handleTeamMembers)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string         `json:"token"`
	User  shared.Profile `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	token, creds, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	emp, err := h.Users.Get(r.Context(), creds.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, sessionResponse{Token: token, User: shared.NewProfile(h.Resolver, emp)}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	if !h.AllowSelfSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "self registration is disabled", requestID)
		return
	}
	var payload users.RegisterInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	emp, err := h.Users.Register(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	token, err := h.Auth.Issue(auth.Credentials{UserID: emp.ID, Email: emp.Email, Role: emp.Role})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, sessionResponse{Token: token, User: shared.NewProfile(h.Resolver, emp)}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := requestctx.GetUser(r.Context())
	emp, err := h.Users.Get(r.Context(), user.ID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, shared.NewProfile(h.Resolver, emp), requestctx.GetRequestID(r.Context()))
}

type permissionsResponse struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
	DisplayName string   `json:"displayName"`
}

func (h *Handler) handleUserPermissions(w http.ResponseWriter, r *http.Request) {
	user, _ := requestctx.GetUser(r.Context())
	api.Success(w, permissionsResponse{
		Permissions: h.Resolver.EffectivePermissions(user).List(),
		Role:        user.Role,
		DisplayName: h.Resolver.Registry().DisplayName(user.Role),
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	user, _ := requestctx.GetUser(r.Context())
	members, err := h.Users.TeamMembers(r.Context(), user.ID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, members, requestctx.GetRequestID(r.Context()))
}
