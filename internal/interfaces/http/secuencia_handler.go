package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain"
)

// SecuenciaHandler maneja las peticiones HTTP de secuencias de eNCF (protegido).
type SecuenciaHandler struct {
	uc *facturacion.SecuenciaUseCase
}

// NewSecuenciaHandler construye el handler.
func NewSecuenciaHandler(uc *facturacion.SecuenciaUseCase) *SecuenciaHandler {
	return &SecuenciaHandler{uc: uc}
}

// Create POST /api/secuencias
func (h *SecuenciaHandler) Create(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSecuenciaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sec, err := h.uc.Create(c.Context(), empresaID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(sec)
}

// List GET /api/secuencias
func (h *SecuenciaHandler) List(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.uc.List(c.Context(), empresaID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Desactivar POST /api/secuencias/:id/desactivar
func (h *SecuenciaHandler) Desactivar(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Desactivar(c.Context(), empresaID, c.Params("id")); err != nil {
		return errorToStatus(c, err, "secuencia no encontrada")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
