package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/xavierca1/garage-leads/internal/entity"
)

//go:embed templates/*
var templateFS embed.FS

var (
	couponHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/coupon.html"))
	couponSMS  = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/coupon_sms.txt"))
)

func CouponSubject(coupon entity.Coupon) string {
	return fmt.Sprintf("🎉 Your Free Inspection Coupon - Code: %s", coupon.Code)
}

func RenderCouponEmail(coupon entity.Coupon, brand entity.Brand) (string, error) {
	var body bytes.Buffer
	data := CouponMessageData{Coupon: coupon, Brand: brand, Year: coupon.SentAt.Year()}
	if err := couponHTML.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func RenderCouponSMS(coupon entity.Coupon, brand entity.Brand) (string, error) {
	var body bytes.Buffer
	data := CouponMessageData{Coupon: coupon, Brand: brand, Year: coupon.SentAt.Year()}
	if err := couponSMS.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template de SMS: %w", err)
	}
	return strings.TrimSpace(body.String()), nil
}
