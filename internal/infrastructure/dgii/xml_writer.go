package dgii

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// documentWriter acumula el documento con indentación fija de dos espacios.
// Todo texto libre pasa por EscapeXMLCharacters antes de insertarse, y los
// elementos con valor vacío no se escriben nunca: el invariante "sin etiquetas
// vacías" se cumple por construcción, no por limpieza posterior.
type documentWriter struct {
	sb    strings.Builder
	depth int
}

func newDocumentWriter() *documentWriter {
	w := &documentWriter{}
	w.sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	return w
}

func (w *documentWriter) indent() {
	for i := 0; i < w.depth; i++ {
		w.sb.WriteString("  ")
	}
}

// openRoot abre el elemento raíz con sus atributos de namespace tal cual,
// sin escapar (los valores son constantes del paquete, no entrada de usuario).
func (w *documentWriter) openRoot(name string, attrs ...[2]string) {
	w.indent()
	w.sb.WriteString("<" + name)
	for _, a := range attrs {
		w.sb.WriteString(` ` + a[0] + `="` + a[1] + `"`)
	}
	w.sb.WriteString(">\n")
	w.depth++
}

func (w *documentWriter) open(name string) {
	w.indent()
	w.sb.WriteString("<" + name + ">\n")
	w.depth++
}

func (w *documentWriter) close(name string) {
	w.depth--
	w.indent()
	w.sb.WriteString("</" + name + ">\n")
}

// element escribe <name>valor</name> con el valor escapado. Si el valor queda
// vacío tras recortar espacios, no escribe nada.
func (w *documentWriter) element(name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	w.indent()
	w.sb.WriteString("<" + name + ">" + pkgdgii.EscapeXMLCharacters(value) + "</" + name + ">\n")
}

// elementMonto escribe un monto con 2 decimales fijos (moneda y cantidades).
func (w *documentWriter) elementMonto(name string, d decimal.Decimal) {
	w.element(name, formatMonto(d))
}

func (w *documentWriter) bytes() []byte {
	return []byte(w.sb.String())
}

// Precisión por campo según el XSD de la DGII: el esquema valida el formato,
// no solo el valor, así que StringFixed y no String.
func formatMonto(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func formatTipoCambio(d decimal.Decimal) string {
	return d.Round(4).StringFixed(4)
}

func formatGradosAlcohol(d decimal.Decimal) string {
	return d.Round(1).StringFixed(1)
}
