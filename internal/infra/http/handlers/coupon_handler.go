package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/garage-leads/internal/infra/http/middleware"
	"github.com/xavierca1/garage-leads/internal/usecase"
)

type CouponHandler struct {
	SendCouponUC *usecase.SendCouponUseCase
}

func NewCouponHandler(uc *usecase.SendCouponUseCase) *CouponHandler {
	return &CouponHandler{SendCouponUC: uc}
}

// Send handles POST /api/coupons/send.
func (h *CouponHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendCouponInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.SendCouponUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err, "Failed to send coupon. Please try again.")
		return
	}

	middleware.RecordCouponChannel("sms", string(output.SMS))
	middleware.RecordCouponChannel("email", string(output.Email))

	writeJSON(w, http.StatusOK, output)
}
