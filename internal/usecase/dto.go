package usecase

import "github.com/xavierca1/garage-leads/internal/entity"

type CreateLeadInput struct {
	FirstName      string            `json:"firstName"`
	LastName       string            `json:"lastName"`
	Phone          string            `json:"phone"`
	Email          string            `json:"email"`
	Vehicle        string            `json:"vehicle"`
	Concern        string            `json:"concern"`
	OfferCode      string            `json:"offerCode"`
	MarketingOptIn bool              `json:"marketingOptIn"`
	UTM            map[string]string `json:"utm"`
	Page           string            `json:"page"`
	Timestamp      string            `json:"timestamp"`

	// Filled in by the HTTP layer, never by the client body.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type CreateLeadOutput struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
}

type CouponRecipient struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type SendCouponInput struct {
	OfferCode string          `json:"offerCode"`
	To        CouponRecipient `json:"to"`
	Name      string          `json:"name"`
}

// ChannelOutcome is the result of one delivery attempt. Sent means the
// provider accepted the message, not that it was delivered.
type ChannelOutcome string

const (
	OutcomeSent    ChannelOutcome = "sent"
	OutcomeSkipped ChannelOutcome = "skipped-no-contact"
	OutcomeFailed  ChannelOutcome = "failed"

	// OutcomeAlreadySent means another request already dispatched this claim.
	OutcomeAlreadySent ChannelOutcome = "skipped-already-sent"
)

type SendCouponOutput struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	CouponData entity.Coupon `json:"couponData"`

	Email       ChannelOutcome `json:"-"`
	SMS         ChannelOutcome `json:"-"`
	LeadUpdated bool           `json:"-"`
}

type RecordUpsellInput struct {
	Product string `json:"product"`
	Offer   string `json:"offer"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type RecordUpsellOutput struct {
	Success  bool   `json:"success"`
	UpsellID string `json:"upsellId"`
	Message  string `json:"message"`
}

type ListLeadsOutput struct {
	Success bool             `json:"success"`
	Leads   []entity.Lead    `json:"leads"`
	Stats   entity.LeadStats `json:"stats"`
}

type AdminLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginOutput struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
