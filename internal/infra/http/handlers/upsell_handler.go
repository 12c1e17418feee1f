package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/garage-leads/internal/usecase"
)

type UpsellHandler struct {
	RecordUpsellUC *usecase.RecordUpsellUseCase
}

func NewUpsellHandler(uc *usecase.RecordUpsellUseCase) *UpsellHandler {
	return &UpsellHandler{RecordUpsellUC: uc}
}

func (h *UpsellHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input usecase.RecordUpsellInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	input.IPAddress = getClientIP(r)
	input.UserAgent = r.UserAgent()

	output, err := h.RecordUpsellUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err, "Failed to record upsell")
		return
	}

	writeJSON(w, http.StatusCreated, output)
}
