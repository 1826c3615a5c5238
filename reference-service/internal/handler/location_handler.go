package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"complaint-portal/reference-service/internal/models"
)

type LocationService interface {
	Provinces(ctx context.Context) ([]string, error)
	Districts(ctx context.Context, f models.LocationFilter) ([]string, error)
	Sectors(ctx context.Context, f models.LocationFilter) ([]string, error)
	Cells(ctx context.Context, f models.LocationFilter) ([]string, error)
	Villages(ctx context.Context, f models.LocationFilter) ([]string, error)
}

type LocationHandler struct {
	service LocationService
	log     *logrus.Entry
}

func NewLocationHandler(service LocationService, log *logrus.Entry) *LocationHandler {
	return &LocationHandler{
		service: service,
		log:     log,
	}
}

func (h *LocationHandler) RegisterRoutes(r *mux.Router) {
	locations := r.PathPrefix("/api/locations").Subrouter()
	locations.HandleFunc("/provinces", h.Provinces).Methods(http.MethodGet)
	locations.HandleFunc("/districts", h.level(h.service.Districts)).Methods(http.MethodGet)
	locations.HandleFunc("/sectors", h.level(h.service.Sectors)).Methods(http.MethodGet)
	locations.HandleFunc("/cells", h.level(h.service.Cells)).Methods(http.MethodGet)
	locations.HandleFunc("/villages", h.level(h.service.Villages)).Methods(http.MethodGet)
}

func filterFromQuery(r *http.Request) models.LocationFilter {
	q := r.URL.Query()
	return models.LocationFilter{
		Province: q.Get("province"),
		District: q.Get("district"),
		Sector:   q.Get("sector"),
		Cell:     q.Get("cell"),
	}
}

func (h *LocationHandler) Provinces(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Provinces(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	respondWithList(w, names, len(names))
}

func (h *LocationHandler) level(list func(context.Context, models.LocationFilter) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := list(r.Context(), filterFromQuery(r))
		if err != nil {
			handleServiceError(w, h.log, err)
			return
		}

		respondWithList(w, names, len(names))
	}
}
