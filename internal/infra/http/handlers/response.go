package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/garage-leads/internal/infra/http/middleware"
	"github.com/xavierca1/garage-leads/internal/usecase"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError maps use case errors to HTTP. Technical details are
// logged and replaced by genericMessage.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error, genericMessage string) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, domainStatus(de.Code), ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	code := "INTERNAL_ERROR"
	message := genericMessage
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
		if te.Code == usecase.CodeAdminNotConfigured {
			message = te.Message
		}
	}

	log.Error().Err(err).Str("path", r.URL.Path).Str("code", code).Msg("❌ request failed")
	writeErrorResponse(w, http.StatusInternalServerError, code, message)
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeDuplicateLead:
		return http.StatusConflict
	case usecase.CodeInvalidCredentials, usecase.CodeInvalidToken:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func getClientIP(r *http.Request) string {
	return middleware.ClientIPFromRequest(r)
}
