package entity

import (
	"context"
	"time"
)

const UpsellStatusViewed = "viewed"

type Upsell struct {
	ID        string    `json:"id"`
	Product   string    `json:"product"`
	Offer     string    `json:"offer"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

type UpsellRepositoryInterface interface {
	Create(ctx context.Context, upsell *Upsell) error
}
