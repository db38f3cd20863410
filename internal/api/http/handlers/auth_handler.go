package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/flat-service/internal/api/dto"
	"github.com/spec-kit/flat-service/internal/auth"
	"github.com/spec-kit/flat-service/internal/service"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register (multipart form, optional profileImage file).
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input := service.RegisterInput{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		PhoneNo:  c.FormValue("phoneNo"),
		Address:  c.FormValue("address"),
		Pincode:  c.FormValue("pincode"),
	}

	if fileHeader, err := c.FormFile("profileImage"); err == nil && fileHeader != nil {
		image, err := readImage(fileHeader)
		if err != nil {
			return err
		}
		input.ProfileImage = &image
	}

	user, err := h.auth.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User Registered Successfully",
		"user":    dto.NewUserResponse(*user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User LoggedIn Successfully",
		"token":   token,
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		"user":    dto.NewUserResponse(*user),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticated("user not authenticated")
	}

	user, err := h.auth.CurrentUser(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserResponse(*user),
	})
}

// UpdateProfileImage handles POST /auth/updateProfileImage.
func (h *AuthHandler) UpdateProfileImage(c *fiber.Ctx) error {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticated("user not authenticated")
	}

	fileHeader, err := c.FormFile("profileImage")
	if err != nil || fileHeader == nil {
		return apperrors.NewValidationError("no image file provided", nil)
	}
	image, err := readImage(fileHeader)
	if err != nil {
		return err
	}

	user, err := h.auth.UpdateProfileImage(c.UserContext(), principal.ID, image)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile image updated successfully",
		"user":    dto.NewUserResponse(*user),
	})
}

// readImage loads a multipart file into memory for the upload fan-out.
func readImage(fileHeader *multipart.FileHeader) (service.ImageUpload, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return service.ImageUpload{}, apperrors.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.ImageUpload{}, apperrors.NewInternalError(err)
	}

	return service.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
