package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/application/usecase"
	"github.com/kenjidavila/ecf-rd/internal/domain"
)

// ItemHandler maneja las peticiones HTTP del catálogo de ítems (protegido).
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Codigo == "" || in.Nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "codigo y nombre son requeridos"})
	}
	item, err := h.uc.Create(empresaID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un ítem con ese código"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetByID GET /api/items/:id
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	item, err := h.uc.GetByID(empresaID, c.Params("id"))
	if err != nil {
		return errorToStatus(c, err, "ítem no encontrado")
	}
	return c.JSON(item)
}

// List GET /api/items?limit=20&offset=0
func (h *ItemHandler) List(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.uc.List(empresaID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Delete DELETE /api/items/:id
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(empresaID, c.Params("id")); err != nil {
		return errorToStatus(c, err, "ítem no encontrado")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
