package api

import (
	"encoding/json"
	"net/http"

	"github.com/formlite/formlite/internal/forms"
	"github.com/formlite/formlite/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

// writeError maps structured engine and service failures onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	if fe, ok := forms.AsFlowError(err); ok {
		writeJSON(w, flowStatus(fe.Code), errorBody{Error: fe.Message, Code: string(fe.Code), Fields: fe.Fields})
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		writeJSON(w, serviceStatus(se.Code), errorBody{Error: se.Message, Code: string(se.Code)})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Code: "internal"})
}

func flowStatus(code forms.ErrorCode) int {
	switch code {
	case forms.ErrorNotFound:
		return http.StatusNotFound
	case forms.ErrorExpired:
		return http.StatusGone
	case forms.ErrorValidation:
		return http.StatusUnprocessableEntity
	case forms.ErrorAuthRequired:
		return http.StatusUnauthorized
	case forms.ErrorPersistence:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func serviceStatus(code services.ErrorCode) int {
	switch code {
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
