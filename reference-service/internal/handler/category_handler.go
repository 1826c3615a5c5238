package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"complaint-portal/reference-service/internal/middleware"
	"complaint-portal/reference-service/internal/models"
	"complaint-portal/shared/pkg/validator"
)

type CategoryService interface {
	List(ctx context.Context, admin bool) ([]models.Category, error)
	ListByDepartment(ctx context.Context, department string, admin bool) ([]models.Category, error)
	Get(ctx context.Context, id string, admin bool) (*models.Category, error)
	Create(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, in models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, isActive bool) (*models.Category, error)
}

type CategoryHandler struct {
	service CategoryService
	log     *logrus.Entry
}

func NewCategoryHandler(service CategoryService, log *logrus.Entry) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes mounts the category API. Reads are public, writes need an admin token.
func (h *CategoryHandler) RegisterRoutes(r *mux.Router, auth *middleware.Auth) {
	categories := r.PathPrefix("/api/categories").Subrouter()

	categories.Handle("", auth.Identify(http.HandlerFunc(h.List))).Methods(http.MethodGet)
	categories.Handle("/department/{department}", auth.Identify(http.HandlerFunc(h.ListByDepartment))).Methods(http.MethodGet)
	categories.Handle("/{id}", auth.Identify(http.HandlerFunc(h.Get))).Methods(http.MethodGet)

	categories.Handle("", auth.RequireAdmin(http.HandlerFunc(h.Create))).Methods(http.MethodPost)
	categories.Handle("/{id}", auth.RequireAdmin(http.HandlerFunc(h.Update))).Methods(http.MethodPut)
	categories.Handle("/{id}", auth.RequireAdmin(http.HandlerFunc(h.Delete))).Methods(http.MethodDelete)
	categories.Handle("/{id}/status", auth.RequireAdmin(http.HandlerFunc(h.UpdateStatus))).Methods(http.MethodPatch)
}

// List returns active categories, or all of them for admins
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categories, err := h.service.List(ctx, middleware.IsAdmin(ctx))
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithList(w, categories, len(categories))
}

func (h *CategoryHandler) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categories, err := h.service.ListByDepartment(ctx, mux.Vars(r)["department"], middleware.IsAdmin(ctx))
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithList(w, categories, len(categories))
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category, err := h.service.Get(ctx, mux.Vars(r)["id"], middleware.IsAdmin(ctx))
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithData(w, http.StatusOK, category)
}

// Create creates a new category (admin only)
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	category, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithData(w, http.StatusCreated, category)
}

// Update replaces a category (admin only)
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	category, err := h.service.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithData(w, http.StatusOK, category)
}

// Delete deletes a category (admin only)
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithData(w, http.StatusOK, map[string]interface{}{})
}

// UpdateStatus toggles isActive (admin only)
func (h *CategoryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var update models.CategoryStatusUpdate
	if err := decodeJSON(r, &update); err != nil {
		handleServiceError(w, h.log, err)
		return
	}
	if errs := validator.Struct(update); len(errs) > 0 {
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", errs[0])
		return
	}

	category, err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["id"], *update.IsActive)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithData(w, http.StatusOK, category)
}
