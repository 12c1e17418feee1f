package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/garage-leads/internal/entity"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string, brand entity.Brand) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Brand:    brand,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP transport.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

// SendCoupon sends over SMTP. gomail has no context support, so ctx only
// short-circuits an already cancelled request.
func (s *EmailSender) SendCoupon(ctx context.Context, to string, coupon entity.Coupon) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Host == "" {
		return fmt.Errorf("smtp não configurado")
	}

	body, err := RenderCouponEmail(coupon, s.Brand)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.From, s.Brand.Name)
	m.SetHeader("To", to)
	m.SetHeader("Subject", CouponSubject(coupon))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
