package domain

import "time"

// FlatStatus enumerates the listing lifecycle. Transitions are monotonic:
// pending -> approved -> sold, with pending -> sold also permitted. Sold is
// terminal.
type FlatStatus string

const (
	FlatStatusPending  FlatStatus = "pending"
	FlatStatusApproved FlatStatus = "approved"
	FlatStatusSold     FlatStatus = "sold"
)

// Flat is the property listing aggregate. OwnerID back-references the
// submitting user. Images keeps the submission order.
type Flat struct {
	ID           string
	OwnerID      string
	Title        string
	Address      string
	Price        float64
	Description  string
	Images       []string
	Amenities    []string
	Status       FlatStatus
	SoldToUserID *string
	SoldAt       *time.Time
	CreatedAt    time.Time
}

// FlatWithOwner pairs an approved listing with its public owner projection.
type FlatWithOwner struct {
	Flat
	Owner OwnerSummary
}
