package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kuryentech/gardian-admin/internal/common"
)

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeServiceError maps the sentinel errors of the service layer onto HTTP
// status codes and stable error strings the dashboard keys its messages on.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "validation_error")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "invalid_token")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, "refresh_token_expired")
	case errors.Is(err, common.ErrorAccountPending):
		writeError(w, http.StatusForbidden, "account_pending")
	case errors.Is(err, common.ErrorAccountSuspended):
		writeError(w, http.StatusForbidden, "account_suspended")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrorInvalidCode):
		writeError(w, http.StatusBadRequest, "invalid_code")
	case errors.Is(err, common.ErrorCodeExpired):
		writeError(w, http.StatusGone, "code_expired")
	case errors.Is(err, common.ErrorResendCooldown):
		writeError(w, http.StatusTooManyRequests, "resend_cooldown")
	case errors.Is(err, common.ErrorStorage):
		writeError(w, http.StatusBadGateway, "storage_error")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
