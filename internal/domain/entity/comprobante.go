package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de emisión ante la DGII.
const (
	ECFStatusBorrador        = "BORRADOR"         // Guardado para reservar el eNCF
	ECFStatusFirmado         = "FIRMADO"          // XML firmado, pendiente de envío al WS
	ECFStatusEnviado         = "ENVIADO"          // Entregado al WS DGII, respuesta pendiente
	ECFStatusAceptado        = "ACEPTADO"         // Aceptado por la DGII (o simulado en dev)
	ECFStatusRechazado       = "RECHAZADO"        // Rechazado por la DGII con errores
	ECFStatusErrorGeneracion = "ERROR_GENERACION" // Falló la generación de XML o la firma
)

// Comprobante representa la cabecera de un e-CF. Inmutable por factura: tras
// la firma solo cambian los campos de estado/respuesta DGII.
type Comprobante struct {
	ID        string
	EmpresaID string
	ClienteID string // vacío en factura de consumo sin comprador identificado

	TipoECF                   string // 31, 32, 33, 34, 41, 43, 44, 45, 46, 47
	ENCF                      string // E + tipo + secuencial de 10 dígitos
	FechaEmision              time.Time
	FechaVencimientoSecuencia *time.Time
	TipoIngresos              string // catálogo TipoIngresos DGII

	// Referencia de modificación (solo notas de crédito/débito 33 y 34).
	NCFModificado      string
	FechaNCFModificado *time.Time
	CodigoModificacion string

	// Moneda extranjera: el bloque OtraMoneda se emite solo si ambos campos existen.
	TipoMoneda string
	TipoCambio decimal.Decimal

	// Subtotales por tramo y totales, derivados por el calculador de totales.
	MontoGravado18     decimal.Decimal
	MontoGravado16     decimal.Decimal
	MontoGravado0      decimal.Decimal
	MontoExento        decimal.Decimal
	TotalITBIS18       decimal.Decimal
	TotalITBIS16       decimal.Decimal
	TotalITBISRetenido decimal.Decimal
	TotalISRRetenido   decimal.Decimal
	MontoTotal         decimal.Decimal

	// Bloque de firma, asignado por el firmador tras la firma externa.
	CodigoSeguridad string
	FechaFirma      *time.Time

	Estado      string // ver constantes ECFStatus*
	XMLFirmado  string // XML firmado completo (contenido)
	QRURL       string // URL de consulta de timbre para el QR
	TrackID     string // TrackID devuelto por el WS DGII tras el envío
	DGIIErrores string // mensajes de rechazo devueltos por la DGII
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TieneComprador reporta si hay datos identificatorios de comprador (el bloque
// Comprador se omite por completo si no los hay; nunca se emite vacío).
func (c *Comprobante) TieneComprador() bool {
	return c.ClienteID != ""
}

// TieneOtraMoneda reporta si el bloque OtraMoneda aplica (ambos campos presentes).
func (c *Comprobante) TieneOtraMoneda() bool {
	return c.TipoMoneda != "" && c.TipoCambio.IsPositive()
}

// TieneRetenciones reporta si algún total retenido es mayor que cero.
func (c *Comprobante) TieneRetenciones() bool {
	return c.TotalITBISRetenido.IsPositive() || c.TotalISRRetenido.IsPositive()
}

// EsNotaModificacion reporta si el tipo exige referencia al NCF modificado.
func (c *Comprobante) EsNotaModificacion() bool {
	return c.TipoECF == "33" || c.TipoECF == "34"
}
