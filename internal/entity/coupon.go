package entity

import "time"

// Coupon is the snapshot of an offer as it was delivered to a customer.
type Coupon struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	ValidUntil   string    `json:"validUntil"`
	CustomerName string    `json:"customerName"`
	SentAt       time.Time `json:"sentAt"`
	BookingURL   string    `json:"bookingUrl"`
}

// Brand identifies the shop in outgoing messages.
type Brand struct {
	Name    string
	Phone   string
	Address string
	Hours   string
}
