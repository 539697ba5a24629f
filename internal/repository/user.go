package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fuel-delivery-service/internal/domain"
)

const userColumns = `id, email, name, role, password_hash, created_at, updated_at`

// UserRepo represents user repository.
type UserRepo struct{ db *pgxpool.Pool }

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

// Create - stores a new user. A taken email is apperr.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users(`+userColumns+`) VALUES($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, strings.ToLower(u.Email), u.Name, string(u.Role), u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return wrap("create user", err)
}

// GetByID - returns user by its ID, or (nil, nil).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

// GetByEmail - returns user by email (case-insensitive), or (nil, nil).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email=$1`, strings.ToLower(email))
}

// ListByRole returns users with the given role ordered by name.
func (r *UserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY name, id`, string(role))
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap("scan user", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list users", err)
	}
	return out, nil
}

func (r *UserRepo) getOne(ctx context.Context, op, q string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, q, arg))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &u, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
