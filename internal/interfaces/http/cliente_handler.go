package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain"
)

// ClienteHandler maneja las peticiones HTTP de clientes (receptores, protegido).
type ClienteHandler struct {
	uc *facturacion.ClienteUseCase
}

// NewClienteHandler construye el handler.
func NewClienteHandler(uc *facturacion.ClienteUseCase) *ClienteHandler {
	return &ClienteHandler{uc: uc}
}

// Create POST /api/clientes
func (h *ClienteHandler) Create(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateClienteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cliente, err := h.uc.Create(empresaID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un cliente con ese RNC/cédula"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(cliente)
}

// GetByID GET /api/clientes/:id
func (h *ClienteHandler) GetByID(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cliente, err := h.uc.GetByID(empresaID, c.Params("id"))
	if err != nil {
		return errorToStatus(c, err, "cliente no encontrado")
	}
	return c.JSON(cliente)
}

// List GET /api/clientes?limit=20&offset=0
func (h *ClienteHandler) List(c *fiber.Ctx) error {
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

// Delete DELETE /api/clientes/:id
func (h *ClienteHandler) Delete(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(empresaID, c.Params("id")); err != nil {
		return errorToStatus(c, err, "cliente no encontrado")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// errorToStatus traduce errores de dominio comunes a HTTP.
func errorToStatus(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
