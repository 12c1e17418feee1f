package mail

import "github.com/xavierca1/garage-leads/internal/entity"

type CouponMessageData struct {
	Coupon entity.Coupon
	Brand  entity.Brand
	Year   int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Brand    entity.Brand
	dialer   Dialer
}
