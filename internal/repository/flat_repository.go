package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/flat-service/internal/domain"
)

// FlatRepository defines persistence access for listings.
type FlatRepository interface {
	Create(ctx context.Context, flat *domain.Flat) error
	GetByID(ctx context.Context, id string) (*domain.Flat, error)
	GetOwned(ctx context.Context, id, ownerID string) (*domain.Flat, error)
	ListApproved(ctx context.Context) ([]domain.FlatWithOwner, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Flat, error)
	MarkSold(ctx context.Context, id, ownerID string, buyerID *string) (*domain.Flat, error)
	Approve(ctx context.Context, id string) (*domain.Flat, error)
}

type flatRepository struct {
	pool *pgxpool.Pool
}

// NewFlatRepository returns a Postgres-backed implementation.
func NewFlatRepository(pool *pgxpool.Pool) FlatRepository {
	return &flatRepository{pool: pool}
}

const flatColumns = `id, user_id, title, address, price, description, images, amenities, status, sold_to_user_id, sold_date, created_at`

func (r *flatRepository) Create(ctx context.Context, flat *domain.Flat) error {
	const query = `
        INSERT INTO flats (user_id, title, address, price, description, images, amenities, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		flat.OwnerID,
		flat.Title,
		flat.Address,
		flat.Price,
		flat.Description,
		flat.Images,
		flat.Amenities,
		flat.Status,
	).Scan(&flat.ID, &flat.CreatedAt)
}

func (r *flatRepository) GetByID(ctx context.Context, id string) (*domain.Flat, error) {
	const query = `SELECT ` + flatColumns + ` FROM flats WHERE id=$1`
	return scanFlat(r.pool.QueryRow(ctx, query, id))
}

func (r *flatRepository) GetOwned(ctx context.Context, id, ownerID string) (*domain.Flat, error) {
	const query = `SELECT ` + flatColumns + ` FROM flats WHERE id=$1 AND user_id=$2`
	return scanFlat(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *flatRepository) ListApproved(ctx context.Context) ([]domain.FlatWithOwner, error) {
	const query = `
        SELECT f.id, f.user_id, f.title, f.address, f.price, f.description, f.images, f.amenities,
               f.status, f.sold_to_user_id, f.sold_date, f.created_at,
               u.id, u.name, u.email, u.address, u.phone_no
        FROM flats f
        JOIN users u ON u.id = f.user_id
        WHERE f.status = $1
        ORDER BY f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, domain.FlatStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FlatWithOwner
	for rows.Next() {
		var item domain.FlatWithOwner
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Title,
			&item.Address,
			&item.Price,
			&item.Description,
			&item.Images,
			&item.Amenities,
			&item.Status,
			&item.SoldToUserID,
			&item.SoldAt,
			&item.CreatedAt,
			&item.Owner.ID,
			&item.Owner.Name,
			&item.Owner.Email,
			&item.Owner.Address,
			&item.Owner.PhoneNo,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *flatRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Flat, error) {
	const query = `SELECT ` + flatColumns + ` FROM flats WHERE user_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Flat
	for rows.Next() {
		flat, err := scanFlat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *flat)
	}
	return result, rows.Err()
}

// MarkSold performs the sold transition as a single compare-and-swap so a
// concurrent second call cannot race past the already-sold check. A miss
// surfaces as pgx.ErrNoRows; the service disambiguates conflict vs not-found.
func (r *flatRepository) MarkSold(ctx context.Context, id, ownerID string, buyerID *string) (*domain.Flat, error) {
	const query = `
        UPDATE flats SET status=$1, sold_to_user_id=$2, sold_date=NOW()
        WHERE id=$3 AND user_id=$4 AND status <> $1
        RETURNING ` + flatColumns
	return scanFlat(r.pool.QueryRow(ctx, query, domain.FlatStatusSold, buyerID, id, ownerID))
}

// Approve moves a pending listing to approved with the same CAS shape.
func (r *flatRepository) Approve(ctx context.Context, id string) (*domain.Flat, error) {
	const query = `
        UPDATE flats SET status=$1
        WHERE id=$2 AND status=$3
        RETURNING ` + flatColumns
	return scanFlat(r.pool.QueryRow(ctx, query, domain.FlatStatusApproved, id, domain.FlatStatusPending))
}

func scanFlat(row pgx.Row) (*domain.Flat, error) {
	var flat domain.Flat
	if err := row.Scan(
		&flat.ID,
		&flat.OwnerID,
		&flat.Title,
		&flat.Address,
		&flat.Price,
		&flat.Description,
		&flat.Images,
		&flat.Amenities,
		&flat.Status,
		&flat.SoldToUserID,
		&flat.SoldAt,
		&flat.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &flat, nil
}
