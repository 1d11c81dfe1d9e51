package repository

import "github.com/kenjidavila/ecf-rd/internal/domain/entity"

// ComprobanteRepository define el puerto de persistencia para Comprobante y detalles.
type ComprobanteRepository interface {
	Create(c *entity.Comprobante) error
	CreateDetalle(d *entity.ComprobanteDetalle) error
	// Update actualiza los campos DGII del comprobante:
	// estado, codigo_seguridad, fecha_firma, xml_firmado, qr_url, track_id, dgii_errores.
	Update(c *entity.Comprobante) error
	GetByID(id string) (*entity.Comprobante, error)
	GetByENCF(empresaID, encf string) (*entity.Comprobante, error)
	GetDetallesByComprobanteID(comprobanteID string) ([]*entity.ComprobanteDetalle, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Comprobante, error)
	// GetEstado devuelve solo los campos de estado DGII (ligero, para polling).
	GetEstado(id string) (*entity.Comprobante, error)
}
