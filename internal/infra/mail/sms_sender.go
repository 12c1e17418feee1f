package mail

import (
	"context"

	"github.com/xavierca1/garage-leads/internal/entity"
	"github.com/xavierca1/garage-leads/internal/infra/integration/twilio"
)

type SMSSender struct {
	client *twilio.Client
	brand  entity.Brand
}

func NewSMSSender(client *twilio.Client, brand entity.Brand) *SMSSender {
	return &SMSSender{client: client, brand: brand}
}

func (s *SMSSender) SendCoupon(ctx context.Context, to string, coupon entity.Coupon) error {
	body, err := RenderCouponSMS(coupon, s.brand)
	if err != nil {
		return err
	}

	_, err = s.client.SendSMS(ctx, twilio.SendSMSInput{To: to, Body: body})
	return err
}
