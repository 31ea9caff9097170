package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/services"
	"github.com/gofiber/fiber/v2"
)

// UserDirectory lists accounts for the admin panel.
type UserDirectory interface {
	ListUsers() ([]models.User, error)
}

type AdminHandler struct {
	catalogService *services.CatalogService
	users          UserDirectory
}

func NewAdminHandler(catalogService *services.CatalogService, users UserDirectory) *AdminHandler {
	return &AdminHandler{catalogService: catalogService, users: users}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers()
	if err != nil {
		slog.Error("list users failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch users",
		})
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = services.ToUserResponse(&users[i])
	}
	return c.JSON(resp)
}

// UpdateService replaces the whitelisted fields of a service.
func (h *AdminHandler) UpdateService(c *fiber.Ctx) error {
	id := c.Params("id")

	var patch catalog.Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.UpdateServiceResponse{
			Message: "Invalid request body",
		})
	}

	rec, err := h.catalogService.AdminUpdate(c.UserContext(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.UpdateServiceResponse{
				Message: "Service not found",
			})
		case errors.Is(err, services.ErrInvalidService):
			return c.Status(fiber.StatusBadRequest).JSON(dto.UpdateServiceResponse{
				Message: err.Error(),
			})
		}
		slog.Error("failed to update service", "service_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.UpdateServiceResponse{
			Message: "Failed to update service",
		})
	}

	return c.JSON(dto.UpdateServiceResponse{Success: true, Service: &rec})
}
