package employeeshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/requestctx"
	"tikidan/internal/transport/http/api"
	"tikidan/internal/transport/http/shared"
)

// Handler serves user administration. Every route expects the caller to have
// passed the admin role gate.
type Handler struct {
	Users    *users.Service
	Resolver *rbac.Resolver
}

func NewHandler(usersSvc *users.Service, resolver *rbac.Resolver) *Handler {
	return &Handler{Users: usersSvc, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register-employee", h.handleCreate)
	r.Get("/auth/employees-list", h.handleDropdown)
	r.Get("/auth/available-permissions", h.handleCatalogue)
	r.Route("/auth/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
			r.Get("/reporting-chain", h.handleReportingChain)
		})
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload users.EmployeeInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	emp, err := h.Users.RegisterEmployee(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, shared.NewProfile(h.Resolver, emp), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Users.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	profiles := make([]shared.Profile, 0, len(list))
	for _, emp := range list {
		profiles = append(profiles, shared.NewProfile(h.Resolver, emp))
	}
	api.Success(w, shared.Page[shared.Profile]{Items: profiles, Pagination: page}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Users.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, shared.NewProfile(h.Resolver, emp), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload users.UpdateInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	emp, err := h.Users.Update(r.Context(), chi.URLParam(r, "employeeID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, shared.NewProfile(h.Resolver, emp), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := requestctx.GetUser(r.Context())
	id := chi.URLParam(r, "employeeID")
	if err := h.Users.Delete(r.Context(), actor.ID, id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDropdown(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Users.ListSummaries(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, rows, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleReportingChain(w http.ResponseWriter, r *http.Request) {
	chain, err := h.Users.ReportingChain(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, chain, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Resolver.Registry().Catalogue(), requestctx.GetRequestID(r.Context()))
}
