package dgii

// =============================================================================
// Tipos de e-CF (norma 01-2020, catálogo de tipos de comprobante electrónico)
// =============================================================================

const (
	TipoFacturaCreditoFiscal = "31" // Factura de Crédito Fiscal Electrónica
	TipoFacturaConsumo       = "32" // Factura de Consumo Electrónica
	TipoNotaDebito           = "33" // Nota de Débito Electrónica
	TipoNotaCredito          = "34" // Nota de Crédito Electrónica
	TipoComprasElectronico   = "41" // Comprobante Electrónico de Compras
	TipoGastosMenores        = "43" // Comprobante Electrónico para Gastos Menores
	TipoRegimenesEspeciales  = "44" // Comprobante Electrónico para Regímenes Especiales
	TipoGubernamental        = "45" // Comprobante Electrónico Gubernamental
	TipoExportaciones        = "46" // Comprobante Electrónico de Exportaciones
	TipoPagosExterior        = "47" // Comprobante Electrónico para Pagos al Exterior
)

// ValidTipoECF tipos de e-CF aceptados por la plataforma.
var ValidTipoECF = map[string]bool{
	TipoFacturaCreditoFiscal: true,
	TipoFacturaConsumo:       true,
	TipoNotaDebito:           true,
	TipoNotaCredito:          true,
	TipoComprasElectronico:   true,
	TipoGastosMenores:        true,
	TipoRegimenesEspeciales:  true,
	TipoGubernamental:        true,
	TipoExportaciones:        true,
	TipoPagosExterior:        true,
}

// =============================================================================
// Tasas de ITBIS por línea. Son etiquetas, no porcentajes: "E" marca exento.
// Una etiqueta fuera de este catálogo no aporta a ningún subtotal (ver
// internal/domain/ecf, diagnóstico TasaNoReconocida).
// =============================================================================

const (
	TasaITBIS18     = "18" // Gravado tasa 18%
	TasaITBIS16     = "16" // Gravado tasa reducida 16%
	TasaITBIS0      = "0"  // Gravado tasa 0% (exportaciones)
	TasaITBISExento = "E"  // Exento
)

// ValidTasaITBIS etiquetas de tasa reconocidas para los subtotales.
var ValidTasaITBIS = map[string]bool{
	TasaITBIS18: true, TasaITBIS16: true, TasaITBIS0: true, TasaITBISExento: true,
}

// Códigos fijos de TipoSubtotal del bloque <Subtotales> (1..4).
const (
	SubtotalGravado18 = "1"
	SubtotalGravado16 = "2"
	SubtotalGravado0  = "3"
	SubtotalExento    = "4"
)

// =============================================================================
// Indicador de facturación por línea (campo IndicadorFacturacion del Item).
// =============================================================================

const (
	IndicadorGravado18 = 1
	IndicadorGravado16 = 2
	IndicadorGravado0  = 3
	IndicadorExento    = 4
)

// IndicadorFacturacionForTasa mapea la etiqueta de tasa al indicador del XML.
// Una etiqueta no reconocida retorna 0: la línea se lista igual en
// DetallesItems aunque no aporte a los subtotales.
func IndicadorFacturacionForTasa(tasa string) int {
	switch tasa {
	case TasaITBIS18:
		return IndicadorGravado18
	case TasaITBIS16:
		return IndicadorGravado16
	case TasaITBIS0:
		return IndicadorGravado0
	case TasaITBISExento:
		return IndicadorExento
	}
	return 0
}

// =============================================================================
// Tipos de ingreso (Encabezado/TipoIngresos)
// =============================================================================

const (
	IngresoOperacional    = "01" // Ingresos por operaciones (no financieros)
	IngresoFinanciero     = "02"
	IngresoExtraordinario = "03"
	IngresoArrendamiento  = "04"
	IngresoVentaActivos   = "05"
	IngresoOtros          = "06"
)

// =============================================================================
// Unidades de medida de uso frecuente (catálogo DGII)
// =============================================================================

const (
	UnidadUnidad    = "43" // Unidad
	UnidadKilogramo = "22" // Kilogramo
	UnidadLitro     = "25" // Litro
	UnidadMetro     = "27" // Metro
	UnidadGalon     = "19" // Galón
	UnidadCaja      = "7"  // Caja
	UnidadServicio  = "47" // Servicio
)

// ValidUnidadMedida códigos de unidad de medida aceptados en líneas.
var ValidUnidadMedida = map[string]bool{
	UnidadUnidad: true, UnidadKilogramo: true, UnidadLitro: true,
	UnidadMetro: true, UnidadGalon: true, UnidadCaja: true, UnidadServicio: true,
}

// Tipo de ítem (IndicadorBienoServicio).
const (
	ItemBien     = 1
	ItemServicio = 2
)

// =============================================================================
// Códigos de modificación para notas de crédito/débito (33/34)
// =============================================================================

const (
	ModificacionAnulacion         = "1" // Anulación total del e-CF modificado
	ModificacionCorrigeTexto      = "2" // Corrige texto del e-CF modificado
	ModificacionCorrigeMontos     = "3" // Corrige montos del e-CF modificado
	ModificacionReemplazo         = "4" // Reemplazo de comprobante en contingencia
	ModificacionReferenciaFactura = "5" // Referencia a factura de consumo
)
