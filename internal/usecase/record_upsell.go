package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/garage-leads/internal/entity"
)

type RecordUpsellUseCase struct {
	Repo entity.UpsellRepositoryInterface
	Now  func() time.Time
}

func NewRecordUpsellUseCase(repo entity.UpsellRepositoryInterface) *RecordUpsellUseCase {
	return &RecordUpsellUseCase{Repo: repo, Now: time.Now}
}

func (uc *RecordUpsellUseCase) Execute(ctx context.Context, input RecordUpsellInput) (*RecordUpsellOutput, error) {
	product := strings.TrimSpace(input.Product)
	offerCode := strings.TrimSpace(input.Offer)
	if product == "" || offerCode == "" {
		return nil, &DomainError{
			Code:    CodeMissingFields,
			Message: "Missing required fields: product, offer",
		}
	}

	upsell := &entity.Upsell{
		ID:        uuid.New().String(),
		Product:   product,
		Offer:     offerCode,
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		Timestamp: uc.Now(),
		Status:    entity.UpsellStatusViewed,
	}

	if err := uc.Repo.Create(ctx, upsell); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to record upsell", Err: err}
	}

	log.Info().Str("product", product).Str("offer_code", offerCode).Msg("Upsell interaction recorded")

	return &RecordUpsellOutput{
		Success:  true,
		UpsellID: upsell.ID,
		Message:  "Upsell interaction recorded",
	}, nil
}
