package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/garage-leads/internal/entity"
)

const uniqueViolation = "23505"

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	utm, err := json.Marshal(lead.UTM)
	if err != nil {
		return fmt.Errorf("erro ao serializar utm: %w", err)
	}

	query := `
		INSERT INTO leads (
			id, first_name, last_name, phone, email, vehicle, concern, offer_code,
			marketing_opt_in, utm, page, client_timestamp, ip_address, user_agent,
			status, coupon_sent, booking_redirected, payment_collected, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Phone,
		lead.Email,
		lead.Vehicle,
		lead.Concern,
		lead.OfferCode,
		lead.MarketingOptIn,
		string(utm),
		lead.Page,
		lead.ClientTimestamp,
		lead.IPAddress,
		lead.UserAgent,
		lead.Status,
		lead.CouponSent,
		lead.BookingRedirected,
		lead.PaymentCollected,
		lead.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return entity.ErrDuplicateLead
		}
		return fmt.Errorf("erro ao inserir lead: %w", err)
	}

	return nil
}

func (r *LeadRepository) ExistsSince(ctx context.Context, phone, offerCode string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM leads
			WHERE phone = $1 AND offer_code = $2 AND created_at >= $3
		)
	`

	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, phone, offerCode, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("erro ao verificar duplicidade: %w", err)
	}
	return exists, nil
}

// MarkCouponSent only touches a lead whose coupon_sent is still false, so the
// flag and snapshot are written once.
func (r *LeadRepository) MarkCouponSent(ctx context.Context, phone, offerCode string, since time.Time, coupon entity.Coupon) (bool, error) {
	data, err := json.Marshal(coupon)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar cupom: %w", err)
	}

	query := `
		UPDATE leads
		SET coupon_sent = TRUE, coupon_sent_at = $4, coupon_data = $5
		WHERE id = (
			SELECT id FROM leads
			WHERE phone = $1 AND offer_code = $2 AND created_at >= $3
			ORDER BY created_at DESC
			LIMIT 1
		)
		AND coupon_sent = FALSE
	`

	res, err := r.DB.ExecContext(ctx, query, phone, offerCode, since, coupon.SentAt, string(data))
	if err != nil {
		return false, fmt.Errorf("erro ao marcar cupom enviado: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *LeadRepository) ListRecent(ctx context.Context, limit int) ([]entity.Lead, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, vehicle, concern, offer_code,
			marketing_opt_in, utm, page, client_timestamp, ip_address, user_agent,
			status, coupon_sent, coupon_sent_at, coupon_data, booking_redirected,
			payment_collected, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0, limit)
	for rows.Next() {
		var (
			l          entity.Lead
			utm        []byte
			couponData []byte
			sentAt     sql.NullTime
		)
		err := rows.Scan(
			&l.ID, &l.FirstName, &l.LastName, &l.Phone, &l.Email, &l.Vehicle, &l.Concern, &l.OfferCode,
			&l.MarketingOptIn, &utm, &l.Page, &l.ClientTimestamp, &l.IPAddress, &l.UserAgent,
			&l.Status, &l.CouponSent, &sentAt, &couponData, &l.BookingRedirected,
			&l.PaymentCollected, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler lead: %w", err)
		}

		l.UTM = map[string]string{}
		if len(utm) > 0 {
			if err := json.Unmarshal(utm, &l.UTM); err != nil {
				return nil, fmt.Errorf("lead %s: utm inválido: %w", l.ID, err)
			}
		}
		if sentAt.Valid {
			t := sentAt.Time
			l.CouponSentAt = &t
		}
		if len(couponData) > 0 {
			var c entity.Coupon
			if err := json.Unmarshal(couponData, &c); err != nil {
				return nil, fmt.Errorf("lead %s: coupon_data inválido: %w", l.ID, err)
			}
			l.CouponData = &c
		}

		leads = append(leads, l)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) Stats(ctx context.Context, dayStart, weekStart time.Time) (entity.LeadStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE created_at >= $2),
			COUNT(*) FILTER (WHERE coupon_sent),
			COUNT(*) FILTER (WHERE booking_redirected)
		FROM leads
	`

	var s entity.LeadStats
	err := r.DB.QueryRowContext(ctx, query, dayStart, weekStart).Scan(
		&s.Total, &s.Today, &s.ThisWeek, &s.CouponSent, &s.BookingRedirected,
	)
	if err != nil {
		return entity.LeadStats{}, fmt.Errorf("erro ao calcular estatísticas: %w", err)
	}
	return s, nil
}
