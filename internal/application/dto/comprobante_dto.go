package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmitirComprobanteRequest body para POST /api/comprobantes.
// ClienteID es opcional: una factura de consumo (32) puede no identificar
// comprador. El eNCF no viene en el request: lo asigna la secuencia activa.
type EmitirComprobanteRequest struct {
	TipoECF      string          `json:"tipo_ecf" validate:"required"`
	ClienteID    string          `json:"cliente_id"`
	TipoIngresos string          `json:"tipo_ingresos"`
	TipoMoneda   string          `json:"tipo_moneda"`
	TipoCambio   decimal.Decimal `json:"tipo_cambio"`

	// Referencia de modificación (obligatoria para tipos 33 y 34).
	NCFModificado      string     `json:"ncf_modificado"`
	FechaNCFModificado *time.Time `json:"fecha_ncf_modificado"`
	CodigoModificacion string     `json:"codigo_modificacion"`

	Lineas []LineaRequest `json:"lineas" validate:"required,min=1"`
}

// LineaRequest línea del comprobante. ItemID opcional: si viene, nombre,
// precio, tasa y unidad se toman del catálogo salvo que se sobreescriban.
type LineaRequest struct {
	ItemID         string          `json:"item_id"`
	NombreItem     string          `json:"nombre_item"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	TasaITBIS      string          `json:"tasa_itbis"`
	UnidadMedida   string          `json:"unidad_medida"`
	ITBISRetenido  decimal.Decimal `json:"itbis_retenido"`
	ISRRetenido    decimal.Decimal `json:"isr_retenido"`

	ISC               *ISCRequest               `json:"isc,omitempty"`
	ImpuestoAdicional *ImpuestoAdicionalRequest `json:"impuesto_adicional,omitempty"`
}

// ISCRequest sub-bloque opcional de impuesto selectivo al consumo por línea.
type ISCRequest struct {
	GradosAlcohol            decimal.Decimal `json:"grados_alcohol"`
	CantidadReferencia       decimal.Decimal `json:"cantidad_referencia"`
	Subcantidad              decimal.Decimal `json:"subcantidad"`
	PrecioUnitarioReferencia decimal.Decimal `json:"precio_unitario_referencia"`
	MontoISCEspecifico       decimal.Decimal `json:"monto_isc_especifico"`
	MontoISCAdvalorem        decimal.Decimal `json:"monto_isc_advalorem"`
}

// ImpuestoAdicionalRequest sub-bloque opcional de otros impuestos por línea.
type ImpuestoAdicionalRequest struct {
	TipoImpuesto  string          `json:"tipo_impuesto"`
	Tasa          decimal.Decimal `json:"tasa"`
	MontoImpuesto decimal.Decimal `json:"monto_impuesto"`
}

// ComprobanteResponse comprobante con totales para GET /api/comprobantes/:id.
type ComprobanteResponse struct {
	ID              string          `json:"id"`
	EmpresaID       string          `json:"empresa_id"`
	ClienteID       string          `json:"cliente_id,omitempty"`
	TipoECF         string          `json:"tipo_ecf"`
	ENCF            string          `json:"encf"`
	FechaEmision    string          `json:"fecha_emision"`
	MontoGravado18  decimal.Decimal `json:"monto_gravado_18"`
	MontoGravado16  decimal.Decimal `json:"monto_gravado_16"`
	MontoGravado0   decimal.Decimal `json:"monto_gravado_0"`
	MontoExento     decimal.Decimal `json:"monto_exento"`
	TotalITBIS      decimal.Decimal `json:"total_itbis"`
	MontoTotal      decimal.Decimal `json:"monto_total"`
	Estado          string          `json:"estado"`
	CodigoSeguridad string          `json:"codigo_seguridad,omitempty"`
	QRURL           string          `json:"qr_url,omitempty"`

	// Líneas cuya etiqueta de tasa no es ninguna de las cuatro canónicas:
	// se listan en el XML pero no aportan a ningún subtotal.
	TasasNoReconocidas []TasaNoReconocidaDTO `json:"tasas_no_reconocidas,omitempty"`
}

// TasaNoReconocidaDTO diagnóstico de línea con etiqueta de tasa desconocida.
type TasaNoReconocidaDTO struct {
	NumeroLinea int             `json:"numero_linea"`
	Tasa        string          `json:"tasa"`
	Monto       decimal.Decimal `json:"monto"`
}

// ComprobanteListResponse listado paginado de comprobantes.
type ComprobanteListResponse struct {
	Items []ComprobanteResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ComprobanteEstadoDTO respuesta ligera para el endpoint de polling
// GET /api/comprobantes/:id/estado. El frontend consulta hasta que estado sea
// ACEPTADO, RECHAZADO o ERROR_GENERACION.
type ComprobanteEstadoDTO struct {
	ID              string `json:"id"`
	ENCF            string `json:"encf"`
	Estado          string `json:"estado"` // BORRADOR|FIRMADO|ENVIADO|ACEPTADO|RECHAZADO|ERROR_GENERACION
	CodigoSeguridad string `json:"codigo_seguridad,omitempty"`
	QRURL           string `json:"qr_url,omitempty"`
	TrackID         string `json:"track_id,omitempty"`
	Errores         string `json:"errores,omitempty"`
}
