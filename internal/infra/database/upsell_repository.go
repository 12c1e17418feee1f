package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/garage-leads/internal/entity"
)

type UpsellRepository struct {
	DB *sql.DB
}

func NewUpsellRepository(db *sql.DB) *UpsellRepository {
	return &UpsellRepository{DB: db}
}

func (r *UpsellRepository) Create(ctx context.Context, u *entity.Upsell) error {
	query := `
		INSERT INTO upsells (id, product, offer, email, phone, ip_address, user_agent, timestamp, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		u.ID, u.Product, u.Offer, u.Email, u.Phone, u.IPAddress, u.UserAgent, u.Timestamp, u.Status,
	)
	if err != nil {
		return fmt.Errorf("erro ao registrar upsell: %w", err)
	}
	return nil
}
