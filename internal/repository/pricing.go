package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fuel-delivery-service/internal/domain"
)

// PricingRepo stores per-liter fuel rates.
type PricingRepo struct{ db *pgxpool.Pool }

// NewPricingRepo creates a new PricingRepo.
func NewPricingRepo(db *pgxpool.Pool) *PricingRepo { return &PricingRepo{db: db} }

// Get returns the rate for fuelType, or (nil, nil).
func (r *PricingRepo) Get(ctx context.Context, fuelType domain.FuelType) (*domain.FuelPrice, error) {
	p, err := scanPrice(r.db.QueryRow(ctx,
		`SELECT fuel_type, rate_per_liter, updated_by, updated_at FROM fuel_prices WHERE fuel_type=$1`,
		string(fuelType)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrap("get fuel price", err)
	}
	return &p, nil
}

// List returns all rates ordered by fuel type.
func (r *PricingRepo) List(ctx context.Context) ([]domain.FuelPrice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT fuel_type, rate_per_liter, updated_by, updated_at FROM fuel_prices ORDER BY fuel_type`)
	if err != nil {
		return nil, wrap("list fuel prices", err)
	}
	defer rows.Close()

	var out []domain.FuelPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, wrap("scan fuel price", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list fuel prices", err)
	}
	return out, nil
}

// Upsert writes the rate for p.FuelType.
func (r *PricingRepo) Upsert(ctx context.Context, p domain.FuelPrice) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO fuel_prices (fuel_type, rate_per_liter, updated_by, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (fuel_type) DO UPDATE
        SET rate_per_liter = EXCLUDED.rate_per_liter,
            updated_by = EXCLUDED.updated_by,
            updated_at = EXCLUDED.updated_at
    `, string(p.FuelType), p.RatePerLiter, p.UpdatedBy, p.UpdatedAt)
	return wrap("upsert fuel price", err)
}

func scanPrice(row pgx.Row) (domain.FuelPrice, error) {
	var (
		p  domain.FuelPrice
		ft string
	)
	if err := row.Scan(&ft, &p.RatePerLiter, &p.UpdatedBy, &p.UpdatedAt); err != nil {
		return domain.FuelPrice{}, err
	}
	p.FuelType = domain.FuelType(ft)
	return p, nil
}
