package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/flat-service/internal/config"
	"github.com/spec-kit/flat-service/internal/domain"
	"github.com/spec-kit/flat-service/internal/storage"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 24,
			BcryptCost:    bcrypt.MinCost,
			AdminEmail:    "admin@x.com",
			AdminPassword: "breakglass-pass",
		},
		Upload: config.UploadConfig{
			MaxImageBytes:    5 * 1024 * 1024,
			MaxListingImages: 5,
		},
	}
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[string]*domain.User
	emails       map[string]string
	seq          int
	createErr    error
	updateCalls  int
	failOnUpdate error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.emails[user.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	f.emails[user.Email] = user.ID
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.emails[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *f.users[id]
	return &copied, nil
}

func (f *fakeUserRepo) GetProjectionByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.User{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
	}, nil
}

func (f *fakeUserRepo) UpdateProfileImage(_ context.Context, id, imageURL string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOnUpdate != nil {
		return nil, f.failOnUpdate
	}
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	f.updateCalls++
	user.ProfileImage = &imageURL
	user.UpdatedAt = time.Now()
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) add(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := user
	f.users[user.ID] = &stored
	f.emails[user.Email] = user.ID
}

// fakeFlatRepo is an in-memory FlatRepository with the same CAS semantics
// as the Postgres implementation.
type fakeFlatRepo struct {
	mu        sync.Mutex
	flats     map[string]*domain.Flat
	seq       int
	createErr error
}

func newFakeFlatRepo() *fakeFlatRepo {
	return &fakeFlatRepo{flats: make(map[string]*domain.Flat)}
}

func (f *fakeFlatRepo) Create(_ context.Context, flat *domain.Flat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	flat.ID = fmt.Sprintf("flat-%d", f.seq)
	flat.CreatedAt = time.Now()
	stored := *flat
	f.flats[flat.ID] = &stored
	return nil
}

func (f *fakeFlatRepo) GetByID(_ context.Context, id string) (*domain.Flat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flat, ok := f.flats[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *flat
	return &copied, nil
}

func (f *fakeFlatRepo) GetOwned(_ context.Context, id, ownerID string) (*domain.Flat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flat, ok := f.flats[id]
	if !ok || flat.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *flat
	return &copied, nil
}

func (f *fakeFlatRepo) ListApproved(_ context.Context) ([]domain.FlatWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.FlatWithOwner
	for _, flat := range f.flats {
		if flat.Status != domain.FlatStatusApproved {
			continue
		}
		result = append(result, domain.FlatWithOwner{
			Flat:  *flat,
			Owner: domain.OwnerSummary{ID: flat.OwnerID},
		})
	}
	return result, nil
}

func (f *fakeFlatRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Flat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Flat
	for _, flat := range f.flats {
		if flat.OwnerID == ownerID {
			result = append(result, *flat)
		}
	}
	return result, nil
}

func (f *fakeFlatRepo) MarkSold(_ context.Context, id, ownerID string, buyerID *string) (*domain.Flat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flat, ok := f.flats[id]
	if !ok || flat.OwnerID != ownerID || flat.Status == domain.FlatStatusSold {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	flat.Status = domain.FlatStatusSold
	flat.SoldToUserID = buyerID
	flat.SoldAt = &now
	copied := *flat
	return &copied, nil
}

func (f *fakeFlatRepo) Approve(_ context.Context, id string) (*domain.Flat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flat, ok := f.flats[id]
	if !ok || flat.Status != domain.FlatStatusPending {
		return nil, pgx.ErrNoRows
	}
	flat.Status = domain.FlatStatusApproved
	copied := *flat
	return &copied, nil
}

func (f *fakeFlatRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flats)
}

// fakeStorage simulates the object store. URLs encode the payload so tests
// can assert ordering; latency and failures are programmable per payload.
type fakeStorage struct {
	mu      sync.Mutex
	uploads int
	failOn  string
	latency func(payload []byte) time.Duration
}

func (f *fakeStorage) Upload(_ context.Context, payload []byte, _ string, opts storage.UploadOptions) (string, error) {
	if f.latency != nil {
		time.Sleep(f.latency(payload))
	}
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	if f.failOn != "" && string(payload) == f.failOn {
		return "", fmt.Errorf("simulated upload failure")
	}
	return fmt.Sprintf("https://cdn.test/%s/%s", opts.Folder, payload), nil
}
