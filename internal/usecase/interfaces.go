package usecase

import (
	"context"

	"github.com/xavierca1/garage-leads/internal/entity"
	"github.com/xavierca1/garage-leads/internal/infra/queue"
	"github.com/xavierca1/garage-leads/internal/offer"
)

type OfferCatalog interface {
	Lookup(code string) (offer.Offer, bool)
	Has(code string) bool
}

type CouponQueue interface {
	PublishCouponRequest(ctx context.Context, payload queue.CouponRequestPayload) error
}

type EmailChannel interface {
	SendCoupon(ctx context.Context, to string, coupon entity.Coupon) error
}

type SMSChannel interface {
	SendCoupon(ctx context.Context, to string, coupon entity.Coupon) error
}
