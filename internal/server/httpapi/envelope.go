package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/interviewqs/backend/internal/common"
)

// errorBody is the uniform error envelope: the HTTP status is mirrored in
// code and the message is a fixed user-facing string. Internal details never
// cross this boundary.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

func writeData(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dataEnvelope{Data: payload})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeServiceError maps a recognized sentinel error to its status code; an
// unrecognized error becomes a 500 with the caller-provided generic message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "Please provide required information")
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Could not find requested resource")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return common.ErrorValidation
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}
