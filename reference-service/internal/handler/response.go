package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"complaint-portal/reference-service/internal/models"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithData(w http.ResponseWriter, code int, data interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"success": true, "data": data})
}

func respondWithList(w http.ResponseWriter, data interface{}, count int) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "count": count, "data": data})
}

func respondWithError(w http.ResponseWriter, code int, errCode, message string) {
	respondWithJSON(w, code, map[string]interface{}{"success": false, "code": errCode, "error": message})
}

// handleServiceError maps service errors to a response. Unknown errors are logged.
func handleServiceError(w http.ResponseWriter, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "NOT_FOUND", "category not found")
	case errors.Is(err, models.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, models.ErrDuplicate):
		respondWithError(w, http.StatusConflict, "CONFLICT", "a category with this name already exists")
	default:
		log.WithError(err).Error("request failed")
		respondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	return nil
}
