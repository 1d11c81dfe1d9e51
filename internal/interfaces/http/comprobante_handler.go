package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain"
)

// ComprobanteHandler maneja las peticiones HTTP de emisión de e-CF (protegido).
type ComprobanteHandler struct {
	uc *facturacion.EmitirComprobanteUseCase
}

// NewComprobanteHandler construye el handler.
func NewComprobanteHandler(uc *facturacion.EmitirComprobanteUseCase) *ComprobanteHandler {
	return &ComprobanteHandler{uc: uc}
}

// Emitir godoc
// @Summary      Emitir un e-CF
// @Description  Asigna el eNCF desde la secuencia activa, guarda el comprobante y dispara la firma y el envío a DGII en segundo plano. El estado final se consulta con GET /api/comprobantes/{id}/estado.
// @Tags         comprobantes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmitirComprobanteRequest  true  "tipo de e-CF y líneas"
// @Success      201   {object}  dto.ComprobanteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/comprobantes [post]
func (h *ComprobanteHandler) Emitir(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EmitirComprobanteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Emitir(c.Context(), empresaID, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSecuenciaAgotada):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SECUENCIA_AGOTADA", Message: "no quedan eNCF disponibles para este tipo"})
		case errors.Is(err, domain.ErrSecuenciaVencida):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SECUENCIA_VENCIDA", Message: "la secuencia de eNCF está vencida"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SIN_SECUENCIA", Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID GET /api/comprobantes/:id
func (h *ComprobanteHandler) GetByID(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetComprobante(c.Context(), empresaID, c.Params("id"))
	if err != nil {
		return errorToStatus(c, err, "comprobante no encontrado")
	}
	return c.JSON(resp)
}

// List GET /api/comprobantes?limit=20&offset=0
func (h *ComprobanteHandler) List(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.uc.ListComprobantes(c.Context(), empresaID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetEstado GET /api/comprobantes/:id/estado — endpoint ligero de polling.
func (h *ComprobanteHandler) GetEstado(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	estado, err := h.uc.GetEstado(c.Context(), empresaID, c.Params("id"))
	if err != nil {
		return errorToStatus(c, err, "comprobante no encontrado")
	}
	return c.JSON(estado)
}

// DownloadXML GET /api/comprobantes/:id/xml — descarga el XML firmado.
func (h *ComprobanteHandler) DownloadXML(c *fiber.Ctx) error {
	empresaID := GetEmpresaID(c)
	if empresaID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	xmlBytes, filename, err := h.uc.GetXMLFirmado(c.Context(), empresaID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_SIGNED", Message: err.Error()})
		}
		return errorToStatus(c, err, "comprobante no encontrado")
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xmlBytes)
}
