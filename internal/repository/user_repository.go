package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/flat-service/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetProjectionByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, id, imageURL string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, phone_no, address, pincode, role, profile_image)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.PhoneNo,
		user.Address,
		user.Pincode,
		user.Role,
		user.ProfileImage,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, phone_no, address, pincode, role, profile_image, created_at, updated_at
        FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, phone_no, address, pincode, role, profile_image, created_at, updated_at
        FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetProjectionByID loads the trimmed identity used by the request gate.
// The password hash is never selected here.
func (r *userRepository) GetProjectionByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, role, profile_image
        FROM users WHERE id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.ProfileImage,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfileImage(ctx context.Context, id, imageURL string) (*domain.User, error) {
	const query = `
        UPDATE users SET profile_image=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, name, email, password_hash, phone_no, address, pincode, role, profile_image, created_at, updated_at`
	return r.scanUser(r.pool.QueryRow(ctx, query, imageURL, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.PhoneNo,
		&user.Address,
		&user.Pincode,
		&user.Role,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
