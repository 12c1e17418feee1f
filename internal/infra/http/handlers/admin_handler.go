package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xavierca1/garage-leads/internal/infra/http/middleware"
	"github.com/xavierca1/garage-leads/internal/usecase"
)

type AdminHandler struct {
	Auth      *usecase.AdminAuthUseCase
	ListLeads *usecase.ListLeadsUseCase
}

func NewAdminHandler(auth *usecase.AdminAuthUseCase, listLeads *usecase.ListLeadsUseCase) *AdminHandler {
	return &AdminHandler{Auth: auth, ListLeads: listLeads}
}

// Login handles POST /api/admin/auth.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.AdminLoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.Auth.Login(input)
	if err != nil {
		writeUseCaseError(w, r, err, "Authentication failed")
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// Verify handles POST /api/admin/verify-auth. The token comes from the
// Authorization header or, failing that, a {"token"} body.
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
			return
		}
		token = body.Token
	}

	claims, err := h.Auth.Verify(token)
	if err != nil {
		writeUseCaseError(w, r, err, "Authentication failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    claims,
	})
}

// Leads handles GET /api/admin/leads. Expects middleware.AdminAuth in front.
func (h *AdminHandler) Leads(w http.ResponseWriter, r *http.Request) {
	output, err := h.ListLeads.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err, "Failed to fetch leads")
		return
	}

	writeJSON(w, http.StatusOK, output)
}
