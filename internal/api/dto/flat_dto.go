package dto

import (
	"time"

	"github.com/spec-kit/flat-service/internal/domain"
)

// MarkSoldRequest payload for the sold transition.
type MarkSoldRequest struct {
	SoldToUserID *string `json:"sold_to_user_id"`
}

// FlatResponse is the outward listing shape.
type FlatResponse struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Title        string            `json:"title"`
	Address      string            `json:"address"`
	Price        float64           `json:"price"`
	Description  string            `json:"description"`
	Images       []string          `json:"images"`
	Amenities    []string          `json:"amenities"`
	Status       domain.FlatStatus `json:"status"`
	SoldToUserID *string           `json:"sold_to_user_id,omitempty"`
	SoldDate     *time.Time        `json:"sold_date,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OwnerResponse is the public owner projection joined onto approved listings.
type OwnerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	PhoneNo string `json:"phoneNo"`
}

// FlatWithOwnerResponse pairs an approved listing with its owner.
type FlatWithOwnerResponse struct {
	FlatResponse
	Owner OwnerResponse `json:"owner"`
}

// NewFlatResponse maps a domain flat onto the response shape.
func NewFlatResponse(flat domain.Flat) FlatResponse {
	return FlatResponse{
		ID:           flat.ID,
		UserID:       flat.OwnerID,
		Title:        flat.Title,
		Address:      flat.Address,
		Price:        flat.Price,
		Description:  flat.Description,
		Images:       flat.Images,
		Amenities:    flat.Amenities,
		Status:       flat.Status,
		SoldToUserID: flat.SoldToUserID,
		SoldDate:     flat.SoldAt,
		CreatedAt:    flat.CreatedAt,
	}
}

// NewFlatListResponse maps a slice of flats.
func NewFlatListResponse(flats []domain.Flat) []FlatResponse {
	result := make([]FlatResponse, 0, len(flats))
	for _, flat := range flats {
		result = append(result, NewFlatResponse(flat))
	}
	return result
}

// NewFlatWithOwnerListResponse maps approved listings with owners.
func NewFlatWithOwnerListResponse(flats []domain.FlatWithOwner) []FlatWithOwnerResponse {
	result := make([]FlatWithOwnerResponse, 0, len(flats))
	for _, item := range flats {
		result = append(result, FlatWithOwnerResponse{
			FlatResponse: NewFlatResponse(item.Flat),
			Owner: OwnerResponse{
				ID:      item.Owner.ID,
				Name:    item.Owner.Name,
				Email:   item.Owner.Email,
				Address: item.Owner.Address,
				PhoneNo: item.Owner.PhoneNo,
			},
		})
	}
	return result
}
