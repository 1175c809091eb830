package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// userIDHeader identifies the acting user. The service trusts the value;
// authentication happens upstream.
const userIDHeader = "X-Sharer-User-Id"

var errMissingUserHeader = errors.New("X-Sharer-User-Id header is required")

func actorID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(userIDHeader))
	if raw == "" {
		return 0, errMissingUserHeader
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errMissingUserHeader
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// pagination reads from/size query params with the service defaults.
func pagination(r *http.Request) (from, size int, err error) {
	from, size = 0, models.DefaultPageSize

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = strconv.Atoi(raw)
		if err != nil || from < 0 {
			return 0, 0, errors.New("invalid from parameter")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 1 {
			return 0, 0, errors.New("invalid size parameter")
		}
	}
	return from, size, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case domain.KindInvalidRequest, domain.KindInvalidTransition:
		status, message = http.StatusBadRequest, err.Error()
	case domain.KindForbidden:
		status, message = http.StatusForbidden, err.Error()
	case domain.KindConflict:
		status, message = http.StatusConflict, err.Error()
	}

	writeMessage(w, status, message)
}
