package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/flat-service/internal/domain"
)

func newTestFlatService() (*fakeFlatRepo, *fakeStorage, *FlatService) {
	flats := newFakeFlatRepo()
	store := &fakeStorage{}
	svc := NewFlatService(testConfig(), FlatDependencies{
		FlatRepo: flats,
		Storage:  store,
	})
	return flats, store, svc
}

func listingImages(n int) []ImageUpload {
	images := make([]ImageUpload, 0, n)
	for i := 0; i < n; i++ {
		images = append(images, ImageUpload{
			Filename:    fmt.Sprintf("photo-%d.jpg", i),
			ContentType: "image/jpeg",
			Data:        []byte(fmt.Sprintf("img-%d", i)),
		})
	}
	return images
}

func validCreateInput(imageCount int) CreateFlatInput {
	return CreateFlatInput{
		Title:   "2BHK near park",
		Address: "14 Rose Lane",
		Price:   "12500.50",
		Images:  listingImages(imageCount),
	}
}

func TestFlatService_Create(t *testing.T) {
	flats, _, svc := newTestFlatService()

	input := validCreateInput(3)
	input.Description = "sunny corner unit"
	input.Amenities = `["parking","lift"]`

	flat, err := svc.Create(context.Background(), "owner-1", input)
	require.NoError(t, err)
	assert.Equal(t, domain.FlatStatusPending, flat.Status)
	assert.Equal(t, "owner-1", flat.OwnerID)
	assert.Equal(t, 12500.50, flat.Price)
	assert.Equal(t, []string{"parking", "lift"}, flat.Amenities)
	assert.Len(t, flat.Images, 3)
	assert.Equal(t, 1, flats.count())
}

func TestFlatService_Create_PreservesImageOrder(t *testing.T) {
	_, store, svc := newTestFlatService()

	// Later submissions complete first; the result order must still match
	// the submission order.
	store.latency = func(payload []byte) time.Duration {
		return time.Duration(50-10*int(payload[len(payload)-1]-'0')) * time.Millisecond
	}

	flat, err := svc.Create(context.Background(), "owner-1", validCreateInput(5))
	require.NoError(t, err)
	require.Len(t, flat.Images, 5)
	for i, url := range flat.Images {
		assert.Equal(t, fmt.Sprintf("https://cdn.test/flats/owner-1/img-%d", i), url)
	}
}

func TestFlatService_Create_AnyUploadFailureIsAllOrNothing(t *testing.T) {
	flats, store, svc := newTestFlatService()
	store.failOn = "img-2"

	_, err := svc.Create(context.Background(), "owner-1", validCreateInput(4))
	assertDomainCode(t, err, "UPLOAD_FAILED")
	assert.Equal(t, 0, flats.count(), "no listing record may exist after a failed upload")
}

func TestFlatService_Create_Validation(t *testing.T) {
	flats, store, svc := newTestFlatService()

	tests := []struct {
		name     string
		mutate   func(*CreateFlatInput)
		wantCode string
	}{
		{"missing title", func(in *CreateFlatInput) { in.Title = "" }, "VALIDATION_FAILED"},
		{"missing address", func(in *CreateFlatInput) { in.Address = "" }, "VALIDATION_FAILED"},
		{"missing price", func(in *CreateFlatInput) { in.Price = "" }, "VALIDATION_FAILED"},
		{"non-numeric price", func(in *CreateFlatInput) { in.Price = "not-a-number" }, "VALIDATION_FAILED"},
		{"negative price", func(in *CreateFlatInput) { in.Price = "-5" }, "VALIDATION_FAILED"},
		{"no images", func(in *CreateFlatInput) { in.Images = nil }, "VALIDATION_FAILED"},
		{"too many images", func(in *CreateFlatInput) { in.Images = listingImages(6) }, "VALIDATION_FAILED"},
		{"non-image file", func(in *CreateFlatInput) {
			in.Images = []ImageUpload{{ContentType: "text/plain", Data: []byte("x")}}
		}, "UNSUPPORTED_MEDIA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput(2)
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), "owner-1", input)
			assertDomainCode(t, err, tt.wantCode)
		})
	}

	assert.Equal(t, 0, flats.count())
	assert.Equal(t, 0, store.uploads, "validation failures must never reach the storage step")
}

func TestFlatService_Create_MalformedAmenitiesAreTolerated(t *testing.T) {
	_, _, svc := newTestFlatService()

	input := validCreateInput(1)
	input.Amenities = `{"not": "an array"`

	flat, err := svc.Create(context.Background(), "owner-1", input)
	require.NoError(t, err)
	assert.Empty(t, flat.Amenities)
	assert.NotNil(t, flat.Amenities)
}

func TestFlatService_MarkSold(t *testing.T) {
	flats, _, svc := newTestFlatService()

	created, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)

	buyer := "buyer-9"
	sold, err := svc.MarkSold(context.Background(), "owner-1", created.ID, &buyer)
	require.NoError(t, err)
	assert.Equal(t, domain.FlatStatusSold, sold.Status)
	require.NotNil(t, sold.SoldToUserID)
	assert.Equal(t, "buyer-9", *sold.SoldToUserID)
	require.NotNil(t, sold.SoldAt)

	// Second attempt conflicts and leaves the first sale untouched.
	otherBuyer := "buyer-10"
	_, err = svc.MarkSold(context.Background(), "owner-1", created.ID, &otherBuyer)
	assertDomainCode(t, err, "CONFLICT")

	current, err := flats.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer-9", *current.SoldToUserID)
	assert.Equal(t, *sold.SoldAt, *current.SoldAt)
}

func TestFlatService_MarkSold_NonOwnerLooksLikeMissing(t *testing.T) {
	_, _, svc := newTestFlatService()

	created, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)

	_, err = svc.MarkSold(context.Background(), "intruder", created.ID, nil)
	assertDomainCode(t, err, "NOT_FOUND")

	_, err = svc.MarkSold(context.Background(), "owner-1", "no-such-flat", nil)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestFlatService_MarkSold_PendingListingIsSellable(t *testing.T) {
	_, _, svc := newTestFlatService()

	created, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)
	require.Equal(t, domain.FlatStatusPending, created.Status)

	sold, err := svc.MarkSold(context.Background(), "owner-1", created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.FlatStatusSold, sold.Status)
	assert.Nil(t, sold.SoldToUserID)
}

func TestFlatService_Approve(t *testing.T) {
	_, _, svc := newTestFlatService()

	created, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), "admin-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlatStatusApproved, approved.Status)

	_, err = svc.Approve(context.Background(), "admin-1", created.ID)
	assertDomainCode(t, err, "CONFLICT")

	_, err = svc.Approve(context.Background(), "admin-1", "no-such-flat")
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestFlatService_ListApproved_FiltersStatuses(t *testing.T) {
	_, _, svc := newTestFlatService()

	pending, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)
	approvedSrc, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)
	soldSrc, err := svc.Create(context.Background(), "owner-2", validCreateInput(1))
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "admin-1", approvedSrc.ID)
	require.NoError(t, err)
	_, err = svc.MarkSold(context.Background(), "owner-2", soldSrc.ID, nil)
	require.NoError(t, err)

	listed, err := svc.ListApproved(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, approvedSrc.ID, listed[0].ID)
	assert.NotEqual(t, pending.ID, listed[0].ID)
}

func TestFlatService_ListOwned(t *testing.T) {
	_, _, svc := newTestFlatService()

	mine, err := svc.Create(context.Background(), "owner-1", validCreateInput(1))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "owner-2", validCreateInput(1))
	require.NoError(t, err)

	owned, err := svc.ListOwned(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, mine.ID, owned[0].ID)
}
