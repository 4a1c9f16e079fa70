package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/playzo/playzo-backend/internal/domain/offer"
)

// ══════════════════════════════════════════════════════════════════════════════
// OFFER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const offerColumns = `
	id, title, description, color, image_path, image_url, offer_type,
	start_date, end_date, status, is_featured, is_exclusive, created_by,
	created_at, updated_at
`

// OfferRepository implements offer.Repository for PostgreSQL.
type OfferRepository struct {
	conn *Connection
}

// NewOfferRepository creates a new OfferRepository.
func NewOfferRepository(conn *Connection) *OfferRepository {
	return &OfferRepository{conn: conn}
}

// Create persists a new offer.
func (r *OfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	query := `
		INSERT INTO offers (
			id, title, description, color, image_path, image_url, offer_type,
			start_date, end_date, status, is_featured, is_exclusive, created_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var createdBy any
	if o.CreatedBy != "" {
		createdBy = o.CreatedBy
	}

	_, err := r.conn.Exec(ctx, query,
		o.ID,
		o.Title,
		o.Description,
		o.Color,
		o.ImagePath,
		o.ImageURL,
		string(o.OfferType),
		o.StartDate,
		o.EndDate,
		string(o.Status),
		o.IsFeatured,
		o.IsExclusive,
		createdBy,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}

	return nil
}

// GetByID returns an offer by ID.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*offer.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	return r.scanOffer(r.conn.QueryRow(ctx, query, id))
}

// Update persists changes to an existing offer.
func (r *OfferRepository) Update(ctx context.Context, o *offer.Offer) error {
	query := `
		UPDATE offers SET
			title = $1,
			description = $2,
			color = $3,
			image_path = $4,
			image_url = $5,
			offer_type = $6,
			start_date = $7,
			end_date = $8,
			status = $9,
			is_featured = $10,
			is_exclusive = $11,
			updated_at = $12
		WHERE id = $13
	`

	result, err := r.conn.Exec(ctx, query,
		o.Title,
		o.Description,
		o.Color,
		o.ImagePath,
		o.ImageURL,
		string(o.OfferType),
		o.StartDate,
		o.EndDate,
		string(o.Status),
		o.IsFeatured,
		o.IsExclusive,
		time.Now().UTC(),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return offer.ErrOfferNotFound
	}

	return nil
}

// Delete removes an offer.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return offer.ErrOfferNotFound
	}

	return nil
}

// List returns offers matching the filter, newest start date first.
func (r *OfferRepository) List(ctx context.Context, filter offer.ListFilter) ([]*offer.Offer, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	if filter.OfferType != "" {
		conditions = append(conditions, "offer_type = "+arg(string(filter.OfferType)))
	}
	if filter.FeaturedOnly {
		conditions = append(conditions, "is_featured = TRUE")
	}
	if !filter.ActiveAt.IsZero() {
		at := arg(filter.ActiveAt)
		conditions = append(conditions, "start_date <= "+at, "end_date >= "+at)
	}
	if !filter.StartsAfter.IsZero() {
		conditions = append(conditions, "start_date > "+arg(filter.StartsAfter))
	}
	if !filter.EndedBefore.IsZero() {
		conditions = append(conditions, "end_date < "+arg(filter.EndedBefore))
	}

	query := `SELECT ` + offerColumns + ` FROM offers`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var offers []*offer.Offer
	for rows.Next() {
		o, err := r.scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// ExpireEnded moves every non-expired offer past its end date to EXPIRED.
func (r *OfferRepository) ExpireEnded(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE offers
		SET status = $1, updated_at = $2
		WHERE status <> $1 AND end_date < $3
	`

	result, err := r.conn.Exec(ctx, query, string(offer.StatusExpired), now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire offers: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *OfferRepository) scanOffer(row pgx.Row) (*offer.Offer, error) {
	var (
		o         offer.Offer
		offerType string
		status    string
		createdBy *string
	)

	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Description,
		&o.Color,
		&o.ImagePath,
		&o.ImageURL,
		&offerType,
		&o.StartDate,
		&o.EndDate,
		&status,
		&o.IsFeatured,
		&o.IsExclusive,
		&createdBy,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, offer.ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to scan offer: %w", err)
	}

	o.OfferType = offer.Type(offerType)
	o.Status = offer.Status(status)
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	return &o, nil
}
