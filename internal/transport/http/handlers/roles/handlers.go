package roleshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tikidan/internal/domain/rbac"
	"tikidan/internal/requestctx"
	"tikidan/internal/transport/http/api"
)

type Handler struct {
	Registry *rbac.Registry
}

func NewHandler(registry *rbac.Registry) *Handler {
	return &Handler{Registry: registry}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/roles", h.handleRoles)
	r.Get("/departments", h.handleDepartments)
}

// handleRoles lists every role, or with ?department= only the roles placed in
// that department. An empty department value selects roles without one.
func (h *Handler) handleRoles(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	if r.URL.Query().Has("department") {
		api.Success(w, h.Registry.RolesByDepartment(r.URL.Query().Get("department")), requestID)
		return
	}
	api.Success(w, h.Registry.Roles(), requestID)
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Registry.Departments(), requestctx.GetRequestID(r.Context()))
}
