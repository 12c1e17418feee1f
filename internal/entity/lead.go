package entity

import (
	"context"
	"errors"
	"time"
)

const (
	LeadStatusPending = "pending"
)

// ErrDuplicateLead is returned by the store when an insert collides with a
// uniqueness constraint on (phone, offer code).
var ErrDuplicateLead = errors.New("lead already exists for phone and offer")

type Lead struct {
	ID                string            `json:"id"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Phone             string            `json:"phone"`
	Email             string            `json:"email"`
	Vehicle           string            `json:"vehicle"`
	Concern           string            `json:"concern"`
	OfferCode         string            `json:"offerCode"`
	MarketingOptIn    bool              `json:"marketingOptIn"`
	UTM               map[string]string `json:"utm"`
	Page              string            `json:"page"`
	ClientTimestamp   string            `json:"clientTimestamp,omitempty"`
	IPAddress         string            `json:"ipAddress"`
	UserAgent         string            `json:"userAgent"`
	Status            string            `json:"status"` // pending
	CouponSent        bool              `json:"couponSent"`
	CouponSentAt      *time.Time        `json:"couponSentAt,omitempty"`
	CouponData        *Coupon           `json:"couponData,omitempty"`
	BookingRedirected bool              `json:"bookingRedirected"`
	PaymentCollected  bool              `json:"paymentCollected"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// LeadStats are the dashboard counters. Today and ThisWeek count leads
// created at or after the window starts passed to the store.
type LeadStats struct {
	Total             int `json:"total"`
	Today             int `json:"today"`
	ThisWeek          int `json:"thisWeek"`
	CouponSent        int `json:"couponSent"`
	BookingRedirected int `json:"bookingRedirected"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error

	// ExistsSince reports whether a lead with the same phone and offer code
	// was created at or after since.
	ExistsSince(ctx context.Context, phone, offerCode string, since time.Time) (bool, error)

	// MarkCouponSent flags the newest matching lead created at or after since.
	// It returns false when no unmarked lead matched.
	MarkCouponSent(ctx context.Context, phone, offerCode string, since time.Time, coupon Coupon) (bool, error)

	ListRecent(ctx context.Context, limit int) ([]Lead, error)
	Stats(ctx context.Context, dayStart, weekStart time.Time) (LeadStats, error)
}
