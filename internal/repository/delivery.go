package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/ports/deliverytx"
)

const deliveryColumns = `id, driver_id, client_id, fuel_type, amount, price, address, status,
        status_updated_by, status_changed_at, delivery_date, created_at, updated_at`

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrap("begin tx", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return rollbackFailed(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return wrap("commit tx", err)
	}
	return nil
}

// Insert stores a new delivery.
func (r *DeliveryRepo) Insert(ctx context.Context, d domain.Delivery) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO deliveries (`+deliveryColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, d.ID, d.DriverID, d.ClientID, string(d.FuelType), d.Amount, d.Price, d.Address, string(d.Status),
		d.StatusUpdatedBy, d.StatusChangedAt, d.DeliveryDate, d.CreatedAt, d.UpdatedAt)
	return wrap("insert delivery", err)
}

// Get returns the delivery by id, or (nil, nil) when it does not exist.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	row := r.db.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrap("get delivery", err)
	}
	return &d, nil
}

// List returns deliveries matching f, newest first. If limit/offset are nil, returns the full list.
func (r *DeliveryRepo) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.DriverID != "" {
		add("driver_id = $%d", f.DriverID)
	}

	q := `SELECT ` + deliveryColumns + ` FROM deliveries`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id"
	if f.Limit != nil {
		args = append(args, *f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset != nil {
		args = append(args, *f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, wrap("list deliveries", err)
	}
	defer rows.Close()

	capacity := 0
	if f.Limit != nil && *f.Limit > 0 {
		capacity = *f.Limit
	}
	out := make([]domain.Delivery, 0, capacity)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, wrap("scan delivery", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list deliveries", err)
	}
	return out, nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// GetForUpdate - get delivery by id and lock the row.
func (r *TxRepo) GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id)
	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrap("get delivery for update", err)
	}
	return &d, nil
}

// UpdateStatus - conditional status write guarded by the expected current status.
func (r *TxRepo) UpdateStatus(ctx context.Context, d domain.Delivery, from domain.DeliveryStatus) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE deliveries
        SET status = $2,
            status_updated_by = $3,
            status_changed_at = $4,
            updated_at = $5
        WHERE id = $1 AND status = $6
    `, d.ID, string(d.Status), d.StatusUpdatedBy, d.StatusChangedAt, d.UpdatedAt, string(from))
	if err != nil {
		return false, wrap("update delivery status", err)
	}
	return ct.RowsAffected() == 1, nil
}

func scanDelivery(row pgx.Row) (domain.Delivery, error) {
	var (
		d        domain.Delivery
		fuelType string
		status   string
	)
	err := row.Scan(&d.ID, &d.DriverID, &d.ClientID, &fuelType, &d.Amount, &d.Price, &d.Address, &status,
		&d.StatusUpdatedBy, &d.StatusChangedAt, &d.DeliveryDate, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.Delivery{}, err
	}
	d.FuelType = domain.FuelType(fuelType)
	d.Status = domain.DeliveryStatus(status)
	return d, nil
}

var (
	_ deliverytx.Runner     = (*DeliveryRepo)(nil)
	_ deliverytx.Repository = (*TxRepo)(nil)
)
