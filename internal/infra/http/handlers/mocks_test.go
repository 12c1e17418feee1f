package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/garage-leads/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ExistsSince(ctx context.Context, phone, offerCode string, since time.Time) (bool, error) {
	args := m.Called(ctx, phone, offerCode, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) MarkCouponSent(ctx context.Context, phone, offerCode string, since time.Time, coupon entity.Coupon) (bool, error) {
	args := m.Called(ctx, phone, offerCode, since, coupon)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) ListRecent(ctx context.Context, limit int) ([]entity.Lead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Stats(ctx context.Context, dayStart, weekStart time.Time) (entity.LeadStats, error) {
	args := m.Called(ctx, dayStart, weekStart)
	return args.Get(0).(entity.LeadStats), args.Error(1)
}

type MockUpsellRepository struct {
	mock.Mock
}

func (m *MockUpsellRepository) Create(ctx context.Context, upsell *entity.Upsell) error {
	args := m.Called(ctx, upsell)
	return args.Error(0)
}

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) SendCoupon(ctx context.Context, to string, coupon entity.Coupon) error {
	args := m.Called(ctx, to, coupon)
	return args.Error(0)
}

type fakeBroker struct{ closed bool }

func (b fakeBroker) IsClosed() bool { return b.closed }
