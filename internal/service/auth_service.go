package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/flat-service/internal/auth"
	"github.com/spec-kit/flat-service/internal/config"
	"github.com/spec-kit/flat-service/internal/domain"
	"github.com/spec-kit/flat-service/internal/events"
	"github.com/spec-kit/flat-service/internal/repository"
	"github.com/spec-kit/flat-service/internal/storage"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

const profileImageFolder = "profile_images"

// AuthService coordinates registration, login and session resolution.
type AuthService struct {
	users         repository.UserRepository
	store         storage.ObjectStorage
	tokenMgr      *auth.TokenManager
	breakGlass    auth.BreakGlass
	dispatcher    events.Dispatcher
	bcryptCost    int
	maxImageBytes int64
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Storage    storage.ObjectStorage
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		store:         deps.Storage,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		breakGlass:    auth.NewBreakGlass(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword),
		dispatcher:    deps.Dispatcher,
		bcryptCost:    cfg.Auth.BcryptCost,
		maxImageBytes: cfg.Upload.MaxImageBytes,
	}
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	PhoneNo      string
	Address      string
	Pincode      string
	ProfileImage *ImageUpload
}

// Register creates a new account. The optional profile image is uploaded
// before the user record is written; a storage failure aborts the whole
// registration with no partial record.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" ||
		input.PhoneNo == "" || input.Address == "" || input.Pincode == "" {
		return nil, apperrors.NewValidationError("all fields are required", nil)
	}
	if input.ProfileImage != nil {
		if err := input.ProfileImage.Validate(s.maxImageBytes); err != nil {
			return nil, err
		}
	}

	// Friendly duplicate check; the unique constraint below is the authority.
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("user already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	var profileImageURL *string
	if input.ProfileImage != nil {
		url, err := s.store.Upload(ctx, input.ProfileImage.Data, input.ProfileImage.ContentType, storage.UploadOptions{
			Folder:         profileImageFolder,
			Transformation: storage.ProfileTransformation,
		})
		if err != nil {
			return nil, apperrors.NewUploadError(err)
		}
		profileImageURL = &url
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		PhoneNo:      input.PhoneNo,
		Address:      input.Address,
		Pincode:      input.Pincode,
		Role:         domain.RoleUser,
		ProfileImage: profileImageURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("user already exists", nil)
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		ActorID: user.ID,
		Payload: events.UserRegisteredPayload{UserID: user.ID, Email: user.Email},
	})

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login authenticates by email and password. When the pair exactly matches
// the configured break-glass administrator credentials, the password-hash
// check is bypassed and a token is issued with the stored role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("all fields are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, apperrors.NewPersistenceError(err)
	}

	if !s.breakGlass.Matches(email, password) {
		if !auth.VerifyPassword(password, user.PasswordHash) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	sanitized := user.Sanitized()
	return &sanitized, token, expiresAt, nil
}

// ResolveSession verifies a token and re-fetches the trimmed live user.
// Embedded claims identify the caller but are not trusted for profile data.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthenticated("invalid or expired token")
	}

	user, err := s.users.GetProjectionByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return user, nil
}

// CurrentUser loads the full profile for the authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateProfileImage replaces the stored image reference after a successful
// upload. On upload failure the existing reference is left untouched.
func (s *AuthService) UpdateProfileImage(ctx context.Context, userID string, image ImageUpload) (*domain.User, error) {
	if err := image.Validate(s.maxImageBytes); err != nil {
		return nil, err
	}

	url, err := s.store.Upload(ctx, image.Data, image.ContentType, storage.UploadOptions{
		Folder:         profileImageFolder,
		Transformation: storage.ProfileTransformation,
	})
	if err != nil {
		return nil, apperrors.NewUploadError(err)
	}

	user, err := s.users.UpdateProfileImage(ctx, userID, url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
