package dgii

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// Namespaces y constantes de los esquemas e-CF de la DGII.
const (
	// Namespace del e-CF completo
	NsECF = "http://dgii.gov.do/ecf/schemas/e-CF"
	// Namespace del resumen de factura de consumo (RFCE)
	NsRFCE = "http://dgii.gov.do/ecf/schemas/RFCE"
	// XML Schema Instance
	nsXSI = "http://www.w3.org/2001/XMLSchema-instance"

	// Versión del formato publicada por la DGII
	VersionECF = "1.0"

	// URL de consulta de timbre (destino del código QR)
	ConsultaTimbreURL = "https://ecf.dgii.gov.do/ecf/consultatimbre"

	fechaLayout     = "2006-01-02"
	fechaHoraLayout = "2006-01-02T15:04:05"
)

// XMLGeneratorService construye el XML e-CF y el resumen RFCE (sin firma).
type XMLGeneratorService struct{}

// NewXMLGeneratorService crea el servicio.
func NewXMLGeneratorService() *XMLGeneratorService {
	return &XMLGeneratorService{}
}

// GenerateECFXML genera el documento ECF completo con el orden de elementos
// fijo que exige el esquema: Encabezado, Emisor, Comprador (opcional),
// OtraMoneda (opcional), DetallesItems, Subtotales, MontoTotal, Retenciones
// (opcional) y FirmaDigital (opcional). Los bloques condicionales se omiten
// por completo cuando no aplican, nunca se emiten vacíos.
func (s *XMLGeneratorService) GenerateECFXML(ctx *ComprobanteBuildContext) ([]byte, error) {
	if ctx == nil || ctx.Comprobante == nil || ctx.Emisor == nil {
		return nil, fmt.Errorf("dgii: faltan comprobante o emisor en el contexto")
	}
	c := ctx.Comprobante

	w := newDocumentWriter()
	w.openRoot("ECF",
		[2]string{"xmlns", NsECF},
		[2]string{"xmlns:xsi", nsXSI},
		[2]string{"xsi:schemaLocation", NsECF + " eCF.xsd"},
	)

	s.writeEncabezado(w, c)
	s.writeEmisor(w, ctx.Emisor)
	if c.TieneComprador() && ctx.Comprador != nil {
		s.writeComprador(w, ctx.Comprador)
	}
	if c.TieneOtraMoneda() {
		w.open("OtraMoneda")
		w.element("TipoMoneda", c.TipoMoneda)
		w.element("TipoCambio", formatTipoCambio(c.TipoCambio))
		w.close("OtraMoneda")
	}

	w.open("DetallesItems")
	for _, det := range ctx.Detalles {
		s.writeItem(w, det)
	}
	w.close("DetallesItems")

	s.writeSubtotales(w, c)
	w.elementMonto("MontoTotal", c.MontoTotal)

	if c.TieneRetenciones() {
		w.open("Retenciones")
		if c.TotalITBISRetenido.IsPositive() {
			w.elementMonto("TotalITBISRetenido", c.TotalITBISRetenido)
		}
		if c.TotalISRRetenido.IsPositive() {
			w.elementMonto("TotalISRRetenido", c.TotalISRRetenido)
		}
		w.close("Retenciones")
	}

	// FirmaDigital solo cuando el firmador ya asignó ambos campos.
	if c.CodigoSeguridad != "" && c.FechaFirma != nil {
		w.open("FirmaDigital")
		w.element("FechaHoraFirma", c.FechaFirma.Format(fechaHoraLayout))
		w.element("CodigoSeguridad", c.CodigoSeguridad)
		w.close("FirmaDigital")
	}

	w.close("ECF")
	return w.bytes(), nil
}

func (s *XMLGeneratorService) writeEncabezado(w *documentWriter, c *entity.Comprobante) {
	w.open("Encabezado")
	w.element("Version", VersionECF)
	w.element("TipoeCF", c.TipoECF)
	w.element("eNCF", c.ENCF)
	w.element("FechaEmision", c.FechaEmision.Format(fechaLayout))
	if c.FechaVencimientoSecuencia != nil {
		w.element("FechaVencimientoSecuencia", c.FechaVencimientoSecuencia.Format(fechaLayout))
	}
	w.element("IndicadorEnvioDiferido", "0")
	w.element("IndicadorMontoGravado", "0")
	w.element("TipoIngresos", c.TipoIngresos)
	if c.EsNotaModificacion() {
		w.element("NCFModificado", c.NCFModificado)
		if c.FechaNCFModificado != nil {
			w.element("FechaNCFModificado", c.FechaNCFModificado.Format(fechaLayout))
		}
		w.element("CodigoModificacion", c.CodigoModificacion)
	}
	w.close("Encabezado")
}

func (s *XMLGeneratorService) writeEmisor(w *documentWriter, e *entity.Empresa) {
	w.open("Emisor")
	w.element("RNCEmisor", pkgdgii.OnlyDigits(e.RNC))
	w.element("RazonSocialEmisor", e.RazonSocial)
	w.element("NombreComercial", e.NombreComercial)
	w.element("DireccionEmisor", e.Direccion)
	w.element("Municipio", e.Municipio)
	w.element("Provincia", e.Provincia)
	w.close("Emisor")
}

func (s *XMLGeneratorService) writeComprador(w *documentWriter, cl *entity.Cliente) {
	w.open("Comprador")
	if cl.RNC != "" {
		w.element("RNCComprador", pkgdgii.OnlyDigits(cl.RNC))
	} else {
		w.element("IdentificadorExtranjero", cl.IdentificadorExtranjero)
	}
	w.element("RazonSocialComprador", cl.RazonSocial)
	w.element("DireccionComprador", cl.Direccion)
	w.element("MunicipioComprador", cl.Municipio)
	w.element("ProvinciaComprador", cl.Provincia)
	w.element("ContactoComprador", cl.Contacto)
	w.close("Comprador")
}

func (s *XMLGeneratorService) writeItem(w *documentWriter, det *entity.ComprobanteDetalle) {
	w.open("Item")
	w.element("NumeroLinea", strconv.Itoa(det.NumeroLinea))
	w.element("IndicadorFacturacion", strconv.Itoa(pkgdgii.IndicadorFacturacionForTasa(det.TasaITBIS)))
	w.element("NombreItem", det.NombreItem)
	w.element("IndicadorBienoServicio", strconv.Itoa(det.IndicadorBienoServicio))
	w.elementMonto("CantidadItem", det.Cantidad)
	w.element("UnidadMedida", det.UnidadMedida)
	w.elementMonto("PrecioUnitarioItem", det.PrecioUnitario)
	if det.Descuento.IsPositive() {
		w.elementMonto("DescuentoMonto", det.Descuento)
	}
	if isc := det.ISC; isc != nil {
		w.open("ImpuestoSelectivoConsumo")
		w.element("GradosAlcohol", formatGradosAlcohol(isc.GradosAlcohol))
		w.elementMonto("CantidadReferencia", isc.CantidadReferencia)
		w.elementMonto("Subcantidad", isc.Subcantidad)
		w.elementMonto("PrecioUnitarioReferencia", isc.PrecioUnitarioReferencia)
		w.elementMonto("MontoISCEspecifico", isc.MontoISCEspecifico)
		w.elementMonto("MontoISCAdvalorem", isc.MontoISCAdvalorem)
		w.close("ImpuestoSelectivoConsumo")
	}
	if imp := det.ImpuestoAdicional; imp != nil {
		w.open("OtrosImpuestosAdicionales")
		w.element("TipoImpuesto", imp.TipoImpuesto)
		w.elementMonto("TasaImpuestoAdicional", imp.Tasa)
		w.elementMonto("MontoImpuestoAdicional", imp.MontoImpuesto)
		w.close("OtrosImpuestosAdicionales")
	}
	w.elementMonto("MontoItem", det.MontoItem())
	w.close("Item")
}

// writeSubtotales emite un Subtotal por tramo con monto distinto de cero,
// con su TipoSubtotal fijo: 1 = gravado 18%, 2 = gravado 16%, 3 = tasa 0,
// 4 = exento. Los tramos 1 y 2 llevan SubtotalITBIS; el exento va en
// SubtotalExento.
func (s *XMLGeneratorService) writeSubtotales(w *documentWriter, c *entity.Comprobante) {
	w.open("Subtotales")
	if !c.MontoGravado18.IsZero() {
		w.open("Subtotal")
		w.element("TipoSubtotal", strconv.Itoa(pkgdgii.IndicadorGravado18))
		w.elementMonto("SubtotalMontoGravado", c.MontoGravado18)
		w.elementMonto("SubtotalITBIS", c.TotalITBIS18)
		w.close("Subtotal")
	}
	if !c.MontoGravado16.IsZero() {
		w.open("Subtotal")
		w.element("TipoSubtotal", strconv.Itoa(pkgdgii.IndicadorGravado16))
		w.elementMonto("SubtotalMontoGravado", c.MontoGravado16)
		w.elementMonto("SubtotalITBIS", c.TotalITBIS16)
		w.close("Subtotal")
	}
	if !c.MontoGravado0.IsZero() {
		w.open("Subtotal")
		w.element("TipoSubtotal", strconv.Itoa(pkgdgii.IndicadorGravado0))
		w.elementMonto("SubtotalMontoGravado", c.MontoGravado0)
		w.close("Subtotal")
	}
	if !c.MontoExento.IsZero() {
		w.open("Subtotal")
		w.element("TipoSubtotal", strconv.Itoa(pkgdgii.IndicadorExento))
		w.elementMonto("SubtotalExento", c.MontoExento)
		w.close("Subtotal")
	}
	w.close("Subtotales")
}

// GenerateResumenFCEXML genera el RFCE, el resumen mínimo que acepta el canal
// de envío rápido de la DGII para facturas de consumo. Subconjunto estricto
// del documento completo: un único Encabezado.
func (s *XMLGeneratorService) GenerateResumenFCEXML(ctx *ComprobanteBuildContext) ([]byte, error) {
	if ctx == nil || ctx.Comprobante == nil || ctx.Emisor == nil {
		return nil, fmt.Errorf("dgii: faltan comprobante o emisor en el contexto")
	}
	c := ctx.Comprobante

	w := newDocumentWriter()
	w.openRoot("RFCE",
		[2]string{"xmlns", NsRFCE},
		[2]string{"xmlns:xsi", nsXSI},
		[2]string{"xsi:schemaLocation", NsRFCE + " RFCE.xsd"},
	)
	w.open("Encabezado")
	w.element("Version", VersionECF)
	w.element("RNCEmisor", pkgdgii.OnlyDigits(ctx.Emisor.RNC))
	w.element("eNCF", c.ENCF)
	w.element("FechaEmision", c.FechaEmision.Format(fechaLayout))
	w.elementMonto("MontoTotal", c.MontoTotal)
	w.elementMonto("TotalITBIS", c.TotalITBIS18.Add(c.TotalITBIS16))
	if c.FechaFirma != nil {
		w.element("FechaHoraFirma", c.FechaFirma.Format(fechaHoraLayout))
	}
	w.element("CodigoSeguridad", c.CodigoSeguridad)
	w.element("CantidadItems", strconv.Itoa(len(ctx.Detalles)))
	w.close("Encabezado")
	w.close("RFCE")
	return w.bytes(), nil
}

// GenerateQRCodeURL construye la URL de consulta de timbre con los parámetros
// en orden fijo. Cada valor se escapa con url.QueryEscape; no se usa
// url.Values porque Encode ordena las claves alfabéticamente y la DGII espera
// el orden de construcción. Esta codificación genérica es independiente de
// EncodeForURL, que cubre el catálogo restringido para texto embebido en XML.
func (s *XMLGeneratorService) GenerateQRCodeURL(c *entity.Comprobante, rncEmisor string, esRFCE bool) string {
	tipo := "ECF"
	if esRFCE {
		tipo = "RFCE"
	}
	var sb strings.Builder
	sb.WriteString(ConsultaTimbreURL)
	sb.WriteString("?rnc=" + url.QueryEscape(pkgdgii.OnlyDigits(rncEmisor)))
	sb.WriteString("&encf=" + url.QueryEscape(c.ENCF))
	sb.WriteString("&fecha=" + url.QueryEscape(c.FechaEmision.Format(fechaLayout)))
	sb.WriteString("&monto=" + url.QueryEscape(formatMonto(c.MontoTotal)))
	sb.WriteString("&tipo=" + tipo)
	if c.CodigoSeguridad != "" {
		sb.WriteString("&codigoseguridad=" + url.QueryEscape(c.CodigoSeguridad))
	}
	return sb.String()
}

// StructureValidation resultado de la validación estructural superficial.
type StructureValidation struct {
	Valido  bool
	Errores []string
}

// Elementos que deben aparecer en el documento (búsqueda de subcadena).
var (
	requiredECFElements = []string{
		"<Encabezado>", "<Version>", "<TipoeCF>", "<eNCF>", "<FechaEmision>",
		"<Emisor>", "<RNCEmisor>", "<RazonSocialEmisor>",
		"<DetallesItems>", "<Subtotales>", "<MontoTotal>",
	}
	requiredRFCEElements = []string{
		"<Encabezado>", "<Version>", "<RNCEmisor>", "<eNCF>", "<FechaEmision>",
		"<MontoTotal>", "<TotalITBIS>", "<CantidadItems>",
	}
)

// ValidateXMLStructure es una comprobación sintáctica superficial y
// deliberadamente débil: declaración XML, par raíz ECF o RFCE, y presencia de
// cada elemento obligatorio en cualquier punto del documento. No valida
// contra el XSD de la DGII; esa conformidad es responsabilidad del llamador.
func ValidateXMLStructure(xmlDoc string) StructureValidation {
	var errores []string

	if !strings.Contains(xmlDoc, "<?xml") {
		errores = append(errores, "falta la declaración XML")
	}

	var required []string
	switch {
	case strings.Contains(xmlDoc, "<ECF") && strings.Contains(xmlDoc, "</ECF>"):
		required = requiredECFElements
	case strings.Contains(xmlDoc, "<RFCE") && strings.Contains(xmlDoc, "</RFCE>"):
		required = requiredRFCEElements
	default:
		errores = append(errores, "falta el elemento raíz ECF o RFCE (apertura y cierre)")
	}

	for _, el := range required {
		if !strings.Contains(xmlDoc, el) {
			errores = append(errores, "falta el elemento obligatorio "+el)
		}
	}

	return StructureValidation{Valido: len(errores) == 0, Errores: errores}
}
