package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/flat-service/internal/api/dto"
	"github.com/spec-kit/flat-service/internal/auth"
	"github.com/spec-kit/flat-service/internal/service"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

// FlatHandler exposes the listing lifecycle endpoints.
type FlatHandler struct {
	flats *service.FlatService
}

// NewFlatHandler constructs the handler.
func NewFlatHandler(flatService *service.FlatService) *FlatHandler {
	return &FlatHandler{flats: flatService}
}

// CreateFlat handles POST /flat/createFlat (multipart, 1..5 image files).
func (h *FlatHandler) CreateFlat(c *fiber.Ctx) error {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticated("user not authenticated")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	input := service.CreateFlatInput{
		Title:       c.FormValue("title"),
		Address:     c.FormValue("address"),
		Price:       c.FormValue("price"),
		Description: c.FormValue("description"),
		Amenities:   c.FormValue("amenities"),
	}

	for _, fileHeader := range form.File["images"] {
		image, err := readImage(fileHeader)
		if err != nil {
			return err
		}
		input.Images = append(input.Images, image)
	}

	flat, err := h.flats.Create(c.UserContext(), principal.ID, input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Flat Submitted Successfully",
		"flat":    dto.NewFlatResponse(*flat),
	})
}

// GetApproved handles GET /flat/getApprove (public).
func (h *FlatHandler) GetApproved(c *fiber.Ctx) error {
	flats, err := h.flats.ListApproved(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Fetch all approved flats",
		"flats":   dto.NewFlatWithOwnerListResponse(flats),
	})
}

// GetUserFlats handles GET /flat/getFlats.
func (h *FlatHandler) GetUserFlats(c *fiber.Ctx) error {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticated("user not authenticated")
	}

	flats, err := h.flats.ListOwned(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Fetch Flats Successfully",
		"flats":   dto.NewFlatListResponse(flats),
	})
}

// MarkSold handles PUT /flat/:id/sold.
func (h *FlatHandler) MarkSold(c *fiber.Ctx) error {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticated("user not authenticated")
	}

	// The buyer reference is optional and so is the body itself.
	var req dto.MarkSoldRequest
	_ = c.BodyParser(&req)

	flat, err := h.flats.MarkSold(c.UserContext(), principal.ID, c.Params("id"), req.SoldToUserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Flat marked as sold successfully",
		"flat":    dto.NewFlatResponse(*flat),
	})
}

// Approve handles PUT /flat/:id/approve (admin only).
func (h *FlatHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticated("user not authenticated")
	}

	flat, err := h.flats.Approve(c.UserContext(), principal.ID, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Flat approved successfully",
		"flat":    dto.NewFlatResponse(*flat),
	})
}
