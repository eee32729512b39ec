package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/messagely/messagely/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps an error surfaced by the stores to a status code and a
// client-safe message. The stores propagate driver errors untranslated,
// so constraint violations are recognized here by SQLSTATE.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError

	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid username/password")
	case errors.As(err, &pgErr) && pgErr.Code == "23505": // unique_violation
		writeError(w, http.StatusConflict, "username already taken")
	case errors.As(err, &pgErr) && pgErr.Code == "23503": // foreign_key_violation
		writeError(w, http.StatusUnprocessableEntity, "no such user")
	default:
		s.logger.Error(r.Context(), "request failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
