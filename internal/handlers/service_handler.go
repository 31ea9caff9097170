package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ServiceHandler struct {
	catalogService *services.CatalogService
}

func NewServiceHandler(catalogService *services.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalogService: catalogService}
}

// List returns every service, newest first.
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	records, err := h.catalogService.List(c.UserContext())
	if err != nil {
		slog.Error("list services failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch services",
		})
	}
	return c.JSON(records)
}

func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, err := h.catalogService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Not found",
			})
		}
		slog.Error("get service failed", "service_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch service",
		})
	}
	return c.JSON(rec)
}

func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	// The body is read as JSON whatever Content-Type the client declared.
	var payload catalog.CreatePayload
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}
	}

	rec, err := h.catalogService.Create(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidService):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDuplicateServiceID):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("create service failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Could not save to DB",
		})
	}

	slog.Info("service created", "service_id", rec.ID, "city", rec.City)
	return c.Status(fiber.StatusCreated).JSON(rec)
}
