package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/garage-leads/internal/infra/http/middleware"
	"github.com/xavierca1/garage-leads/internal/usecase"
)

type LeadHandler struct {
	CreateLeadUC *usecase.CreateLeadUseCase
	rateLimiter  *RateLimiter
}

func NewLeadHandler(uc *usecase.CreateLeadUseCase, limiter *RateLimiter) *LeadHandler {
	return &LeadHandler{
		CreateLeadUC: uc,
		rateLimiter:  limiter,
	}
}

// CaptureLead handles POST /api/leads.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if h.rateLimiter != nil && !h.rateLimiter.Allow(clientIP) {
		middleware.RecordLeadCaptured("rate_limited")
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED",
			"Too many requests from this IP, please try again later.")
		return
	}

	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	input.IPAddress = clientIP
	input.UserAgent = r.UserAgent()

	output, err := h.CreateLeadUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordLeadCaptured(leadResult(err))
		writeUseCaseError(w, r, err, "Internal server error. Please try again later.")
		return
	}

	middleware.RecordLeadCaptured("created")
	writeJSON(w, http.StatusCreated, output)
}

func leadResult(err error) string {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		if de.Code == usecase.CodeDuplicateLead {
			return "duplicate"
		}
		return "invalid"
	}
	return "error"
}
