package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/garage-leads/internal/entity"
	"github.com/xavierca1/garage-leads/internal/infra/queue"
	"github.com/xavierca1/garage-leads/internal/logger"
)

// DuplicateWindow is how long a (phone, offer) claim blocks a repeat claim.
const DuplicateWindow = 24 * time.Hour

const duplicateLeadMessage = "You have already claimed this offer recently. Please try a different offer or contact us directly."

type CreateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Offers OfferChecker
	Queue  CouponQueue // optional
	Now    func() time.Time
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, offers OfferChecker, q CouponQueue) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:   repo,
		Offers: offers,
		Queue:  q,
		Now:    time.Now,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	if errs := ValidateCreateLeadInput(input, uc.Offers); len(errs) > 0 {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "First name and phone number are required",
			Fields:  fieldMap(errs),
		}
	}

	now := uc.Now()
	phone := strings.TrimSpace(input.Phone)
	offerCode := strings.TrimSpace(input.OfferCode)

	exists, err := uc.Repo.ExistsSince(ctx, phone, offerCode, now.Add(-DuplicateWindow))
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "duplicate lookup failed", Err: err}
	}
	if exists {
		return nil, duplicateLeadError()
	}

	utm := input.UTM
	if utm == nil {
		utm = map[string]string{}
	}

	lead := &entity.Lead{
		ID:              uuid.New().String(),
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Phone:           phone,
		Email:           strings.TrimSpace(input.Email),
		Vehicle:         strings.TrimSpace(input.Vehicle),
		Concern:         strings.TrimSpace(input.Concern),
		OfferCode:       offerCode,
		MarketingOptIn:  input.MarketingOptIn,
		UTM:             utm,
		Page:            input.Page,
		ClientTimestamp: input.Timestamp,
		IPAddress:       input.IPAddress,
		UserAgent:       input.UserAgent,
		Status:          entity.LeadStatusPending,
		CreatedAt:       now,
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateLead) {
			return nil, duplicateLeadError()
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to persist lead", Err: err}
	}

	log.Info().
		Str("lead_id", lead.ID).
		Str("offer_code", lead.OfferCode).
		Str("phone", logger.RedactPhone(lead.Phone)).
		Msg("🚗 New lead captured")

	if uc.Queue != nil && lead.OfferCode != "" {
		payload := queue.CouponRequestPayload{
			LeadID:    lead.ID,
			OfferCode: lead.OfferCode,
			Name:      strings.TrimSpace(lead.FirstName + " " + lead.LastName),
			Phone:     lead.Phone,
			Email:     lead.Email,
		}
		if err := uc.Queue.PublishCouponRequest(ctx, payload); err != nil {
			log.Warn().Err(err).Str("lead_id", lead.ID).Msg("⚠️ coupon request not queued")
		}
	}

	return &CreateLeadOutput{
		Success: true,
		LeadID:  lead.ID,
		Message: "Lead captured successfully",
	}, nil
}

func duplicateLeadError() *DomainError {
	return &DomainError{Code: CodeDuplicateLead, Message: duplicateLeadMessage}
}
