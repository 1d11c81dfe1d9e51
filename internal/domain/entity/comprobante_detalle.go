package entity

import "github.com/shopspring/decimal"

// ImpuestoSelectivoConsumo sub-bloque ISC de una línea (bebidas alcohólicas,
// tabaco y otros bienes gravados). GradosAlcohol es obligatorio si el
// comprobante marca ISC aplicable; la regla la exige el validador de dominio,
// no el generador.
type ImpuestoSelectivoConsumo struct {
	GradosAlcohol            decimal.Decimal // 1 decimal en el XML
	CantidadReferencia       decimal.Decimal
	Subcantidad              decimal.Decimal
	PrecioUnitarioReferencia decimal.Decimal
	MontoISCEspecifico       decimal.Decimal
	MontoISCAdvalorem        decimal.Decimal
}

// ImpuestoAdicional sub-bloque de otros impuestos por línea (propina legal,
// CDT y similares).
type ImpuestoAdicional struct {
	TipoImpuesto   string
	Tasa           decimal.Decimal
	MontoImpuesto  decimal.Decimal
}

// ComprobanteDetalle representa una línea de detalle de un e-CF.
// NumeroLinea es 1-based, secuencial y sin huecos.
type ComprobanteDetalle struct {
	ID            string
	ComprobanteID string
	ItemID        string

	NumeroLinea          int
	NombreItem           string
	IndicadorBienoServicio int    // 1 = bien, 2 = servicio
	Cantidad             decimal.Decimal
	UnidadMedida         string
	PrecioUnitario       decimal.Decimal
	Descuento            decimal.Decimal // >= 0; el elemento se omite si es cero
	TasaITBIS            string          // etiqueta: "18", "16", "0", "E"
	ITBISRetenido        decimal.Decimal
	ISRRetenido          decimal.Decimal

	ISC               *ImpuestoSelectivoConsumo // nil = bloque omitido
	ImpuestoAdicional *ImpuestoAdicional        // nil = bloque omitido
}

// MontoItem monto de la línea: cantidad × precio unitario − descuento.
func (d *ComprobanteDetalle) MontoItem() decimal.Decimal {
	return d.Cantidad.Mul(d.PrecioUnitario).Sub(d.Descuento)
}
