package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/winside-retail/backoffice/internal/users"
)

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) UserSource {
	return &repository{db: pool}
}

func (r *repository) FindByEmail(ctx context.Context, brand, email string) (*users.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, brand, role, status, password_hash, created_at, updated_at
		FROM users
		WHERE brand = $1 AND email = $2`, brand, email)

	var u users.User
	var role, status string
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Brand, &role, &status, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, err
	}
	u.Role = users.Role(role)
	u.Status = users.ApprovalStatus(status)
	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return &u, nil
}
