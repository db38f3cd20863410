package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/flat-service/internal/config"
	"github.com/spec-kit/flat-service/internal/domain"
	"github.com/spec-kit/flat-service/internal/events"
	"github.com/spec-kit/flat-service/internal/repository"
	"github.com/spec-kit/flat-service/internal/storage"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

// FlatService coordinates the listing lifecycle.
type FlatService struct {
	flats         repository.FlatRepository
	store         storage.ObjectStorage
	dispatcher    events.Dispatcher
	maxImages     int
	maxImageBytes int64
}

// FlatDependencies bundles collaborators for the flat service.
type FlatDependencies struct {
	FlatRepo   repository.FlatRepository
	Storage    storage.ObjectStorage
	Dispatcher events.Dispatcher
}

// NewFlatService constructs the service.
func NewFlatService(cfg config.Config, deps FlatDependencies) *FlatService {
	return &FlatService{
		flats:         deps.FlatRepo,
		store:         deps.Storage,
		dispatcher:    deps.Dispatcher,
		maxImages:     cfg.Upload.MaxListingImages,
		maxImageBytes: cfg.Upload.MaxImageBytes,
	}
}

// CreateFlatInput describes the listing submission payload. Price arrives as
// text from the multipart form; Amenities is an optional JSON array.
type CreateFlatInput struct {
	Title       string
	Address     string
	Price       string
	Description string
	Amenities   string
	Images      []ImageUpload
}

// Create validates the submission, uploads all images concurrently and
// persists the listing as pending. The operation is all-or-nothing: if any
// upload fails no listing record is written. Image URLs keep the original
// submission order regardless of upload completion order.
func (s *FlatService) Create(ctx context.Context, ownerID string, input CreateFlatInput) (*domain.Flat, error) {
	if input.Title == "" || input.Address == "" || input.Price == "" {
		return nil, apperrors.NewValidationError("title, address and price are required", nil)
	}
	if len(input.Images) == 0 {
		return nil, apperrors.NewValidationError("please upload at least one image", nil)
	}
	if len(input.Images) > s.maxImages {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d images are allowed", s.maxImages), nil)
	}

	price, err := strconv.ParseFloat(input.Price, 64)
	if err != nil || price < 0 {
		return nil, apperrors.NewValidationError("price must be a non-negative number", nil)
	}

	for _, img := range input.Images {
		if err := img.Validate(s.maxImageBytes); err != nil {
			return nil, err
		}
	}

	// Malformed amenities are tolerated as an empty collection, not rejected.
	var amenities []string
	if input.Amenities != "" {
		if err := json.Unmarshal([]byte(input.Amenities), &amenities); err != nil {
			amenities = nil
		}
	}
	if amenities == nil {
		amenities = []string{}
	}

	urls := make([]string, len(input.Images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range input.Images {
		i, img := i, img
		g.Go(func() error {
			url, err := s.store.Upload(gctx, img.Data, img.ContentType, storage.UploadOptions{
				Folder:         fmt.Sprintf("flats/%s", ownerID),
				Transformation: storage.ListingTransformation,
			})
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewUploadError(err)
	}

	flat := &domain.Flat{
		OwnerID:     ownerID,
		Title:       input.Title,
		Address:     input.Address,
		Price:       price,
		Description: input.Description,
		Images:      urls,
		Amenities:   amenities,
		Status:      domain.FlatStatusPending,
	}
	if err := s.flats.Create(ctx, flat); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventFlatCreated,
		ActorID: ownerID,
		Payload: events.FlatCreatedPayload{FlatID: flat.ID, Title: flat.Title, ImageCount: len(urls)},
	})
	return flat, nil
}

// ListApproved returns approved listings, newest first, joined with the
// public owner projection.
func (s *FlatService) ListApproved(ctx context.Context) ([]domain.FlatWithOwner, error) {
	flats, err := s.flats.ListApproved(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return flats, nil
}

// ListOwned returns every listing owned by the caller, newest first.
func (s *FlatService) ListOwned(ctx context.Context, ownerID string) ([]domain.Flat, error) {
	flats, err := s.flats.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return flats, nil
}

// MarkSold transitions an owned listing to sold, recording the optional
// buyer and the sale time. A non-owner gets the same not-found as a missing
// id. Selling a never-approved pending listing is permitted.
func (s *FlatService) MarkSold(ctx context.Context, ownerID, flatID string, buyerID *string) (*domain.Flat, error) {
	flat, err := s.flats.MarkSold(ctx, flatID, ownerID, buyerID)
	if err == nil {
		s.publish(ctx, events.Event{
			Type:    events.EventFlatSold,
			ActorID: ownerID,
			Payload: events.FlatStatusPayload{
				FlatID:    flat.ID,
				NewStatus: domain.FlatStatusSold,
				BuyerID:   buyerID,
			},
		})
		return flat, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	// The CAS missed: either the listing is already sold or the caller does
	// not own it (or it does not exist).
	existing, lookupErr := s.flats.GetOwned(ctx, flatID, ownerID)
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("flat", nil)
		}
		return nil, apperrors.NewPersistenceError(lookupErr)
	}
	if existing.Status == domain.FlatStatusSold {
		return nil, apperrors.NewConflict("flat is already sold", nil)
	}
	return nil, apperrors.NewPersistenceError(err)
}

// Approve moves a pending listing to approved. Callers are admin-gated at
// the route level.
func (s *FlatService) Approve(ctx context.Context, actorID, flatID string) (*domain.Flat, error) {
	flat, err := s.flats.Approve(ctx, flatID)
	if err == nil {
		s.publish(ctx, events.Event{
			Type:    events.EventFlatApproved,
			ActorID: actorID,
			Payload: events.FlatStatusPayload{
				FlatID:    flat.ID,
				OldStatus: domain.FlatStatusPending,
				NewStatus: domain.FlatStatusApproved,
			},
		})
		return flat, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	existing, lookupErr := s.flats.GetByID(ctx, flatID)
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("flat", nil)
		}
		return nil, apperrors.NewPersistenceError(lookupErr)
	}
	return nil, apperrors.NewConflict(
		fmt.Sprintf("flat is already %s", existing.Status), nil)
}

func (s *FlatService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
