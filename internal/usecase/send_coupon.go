package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/garage-leads/internal/entity"
	"github.com/xavierca1/garage-leads/internal/infra/queue"
	"github.com/xavierca1/garage-leads/internal/logger"
	"github.com/xavierca1/garage-leads/internal/offer"
)

type SendCouponUseCase struct {
	Offers         OfferCatalog
	Email          EmailChannel // nil disables the channel
	SMS            SMSChannel   // nil disables the channel
	Repo           entity.LeadRepositoryInterface
	BookingBaseURL string
	Now            func() time.Time
}

func NewSendCouponUseCase(
	offers OfferCatalog,
	email EmailChannel,
	sms SMSChannel,
	repo entity.LeadRepositoryInterface,
	bookingBaseURL string,
) *SendCouponUseCase {
	return &SendCouponUseCase{
		Offers:         offers,
		Email:          email,
		SMS:            sms,
		Repo:           repo,
		BookingBaseURL: bookingBaseURL,
		Now:            time.Now,
	}
}

// Execute sends the coupon through every channel the recipient has contact
// details for. A claim backed by a lead is marked before anything is sent, so
// a second request for the same claim (browser and queue worker both firing)
// sends nothing. Channel and store failures are logged, never returned.
func (uc *SendCouponUseCase) Execute(ctx context.Context, input SendCouponInput) (*SendCouponOutput, error) {
	code := strings.TrimSpace(input.OfferCode)
	phone := strings.TrimSpace(input.To.Phone)
	email := strings.TrimSpace(input.To.Email)
	name := strings.TrimSpace(input.Name)

	if code == "" || name == "" || (phone == "" && email == "") {
		return nil, &DomainError{
			Code:    CodeMissingFields,
			Message: "Missing required fields: offerCode, to, name",
		}
	}
	if email != "" && !IsValidEmail(email) {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "Invalid email address",
			Fields:  map[string]string{"to.email": "is invalid"},
		}
	}

	tmpl, ok := uc.Offers.Lookup(code)
	if !ok {
		return nil, &DomainError{Code: CodeInvalidOffer, Message: "Invalid offer code"}
	}

	now := uc.Now()
	coupon := entity.Coupon{
		Code:         code,
		Name:         tmpl.Name,
		Value:        tmpl.Value,
		Description:  tmpl.Description,
		Instructions: tmpl.Instructions,
		ValidUntil:   tmpl.ValidUntil,
		CustomerName: name,
		SentAt:       now,
		BookingURL:   offer.BookingURL(uc.BookingBaseURL, code),
	}

	out := &SendCouponOutput{
		Success:    true,
		Message:    "Coupon sent successfully",
		CouponData: coupon,
		SMS:        OutcomeSkipped,
		Email:      OutcomeSkipped,
	}

	// Leads are keyed by phone; an email-only claim has nothing to mark.
	if phone != "" {
		marked, dispatched, err := uc.claim(ctx, phone, code, now, coupon)
		if err != nil {
			log.Error().Err(err).Str("offer_code", code).Msg("❌ coupon claim not recorded, sending anyway")
		}
		if dispatched {
			log.Info().
				Str("offer_code", code).
				Str("to", logger.RedactPhone(phone)).
				Msg("coupon already dispatched for this claim")
			out.Message = "Coupon already sent"
			out.SMS = OutcomeAlreadySent
			out.Email = OutcomeAlreadySent
			return out, nil
		}
		out.LeadUpdated = marked
	}

	if phone != "" && uc.SMS != nil {
		out.SMS = attempt("sms", code, logger.RedactPhone(phone), func() error {
			return uc.SMS.SendCoupon(ctx, phone, coupon)
		})
	}

	if email != "" && uc.Email != nil {
		out.Email = attempt("email", code, logger.RedactEmail(email), func() error {
			return uc.Email.SendCoupon(ctx, email, coupon)
		})
	}

	return out, nil
}

// claim marks the newest lead for (phone, code) inside the duplicate window.
// dispatched is true when that lead had already been marked by an earlier
// request. With no matching lead both results are false.
func (uc *SendCouponUseCase) claim(ctx context.Context, phone, code string, now time.Time, coupon entity.Coupon) (marked, dispatched bool, err error) {
	since := now.Add(-DuplicateWindow)

	marked, err = uc.Repo.MarkCouponSent(ctx, phone, code, since, coupon)
	if err != nil || marked {
		return marked, false, err
	}

	exists, err := uc.Repo.ExistsSince(ctx, phone, code, since)
	if err != nil {
		return false, false, err
	}
	return false, exists, nil
}

// HandleQueued dispatches a coupon request taken off the queue.
func (uc *SendCouponUseCase) HandleQueued(ctx context.Context, payload queue.CouponRequestPayload) error {
	_, err := uc.Execute(ctx, SendCouponInput{
		OfferCode: payload.OfferCode,
		To:        CouponRecipient{Phone: payload.Phone, Email: payload.Email},
		Name:      payload.Name,
	})
	return err
}

func attempt(channel, code, recipient string, send func() error) ChannelOutcome {
	if err := send(); err != nil {
		log.Warn().Err(err).
			Str("channel", channel).
			Str("offer_code", code).
			Str("to", recipient).
			Msg("⚠️ coupon delivery failed")
		return OutcomeFailed
	}
	log.Info().
		Str("channel", channel).
		Str("offer_code", code).
		Str("to", recipient).
		Msg("✅ coupon sent")
	return OutcomeSent
}
