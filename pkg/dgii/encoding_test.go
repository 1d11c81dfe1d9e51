package dgii_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// ──────────────────────────────────────────────────────────────────────────────
// EscapeXMLCharacters: el validador DGII exige referencias numéricas decimales,
// no las entidades con nombre. Estos tests son el "canario en la mina" del
// formato: si alguien cambia una referencia o el orden de reemplazo, la DGII
// rechaza el documento completo.
// ──────────────────────────────────────────────────────────────────────────────

func TestEscapeXMLCharacters_ReferenciasDecimales(t *testing.T) {
	assert.Equal(t, "&#38;", dgii.EscapeXMLCharacters("&"))
	assert.Equal(t, "&#60;", dgii.EscapeXMLCharacters("<"))
	assert.Equal(t, "&#62;", dgii.EscapeXMLCharacters(">"))
	assert.Equal(t, "&#34;", dgii.EscapeXMLCharacters(`"`))
	assert.Equal(t, "&#39;", dgii.EscapeXMLCharacters("'"))
}

func TestEscapeXMLCharacters_RazonSocialComercial(t *testing.T) {
	// Escenario real: razón social con apóstrofo, ampersand y comillas.
	in := `O'Brien & Sons "DR"`
	want := `O&#39;Brien &#38; Sons &#34;DR&#34;`
	assert.Equal(t, want, dgii.EscapeXMLCharacters(in))
}

func TestEscapeXMLCharacters_SinDobleEscape(t *testing.T) {
	// Una sola pasada: el & insertado por un reemplazo no se vuelve a escapar.
	out := dgii.EscapeXMLCharacters("a&b&c")
	assert.Equal(t, "a&#38;b&#38;c", out)
	assert.NotContains(t, out, "&#38;#38;")
}

func TestEscapeXMLCharacters_EntradaVacia(t *testing.T) {
	assert.Equal(t, "", dgii.EscapeXMLCharacters(""))
}

func TestEscapeXMLCharacters_TextoLimpioIntacto(t *testing.T) {
	in := "Café dominicano 100% orgánico"
	assert.Equal(t, in, dgii.EscapeXMLCharacters(in))
}

// TestEscapeXMLCharacters_SalidaSiempreValida propiedad: para cualquier
// entrada, el resultado pasa ValidateXMLContent.
func TestEscapeXMLCharacters_SalidaSiempreValida(t *testing.T) {
	inputs := []string{
		"", "texto plano", `todos: & < > " '`, "&#38; ya escapado",
		"mezcla 'de\" <casos> & más", "&&&&", "<<<>>>",
	}
	for _, in := range inputs {
		out := dgii.EscapeXMLCharacters(in)
		cv := dgii.ValidateXMLContent(out)
		assert.True(t, cv.IsValid, "entrada %q produjo salida inválida %q: %v", in, out, cv.InvalidCharacters)
	}
}

func TestValidateXMLContent_DetectaCaracteresCrudos(t *testing.T) {
	cv := dgii.ValidateXMLContent(`precio < 100 & "neto"`)
	assert.False(t, cv.IsValid)
	// Orden de primera aparición, sin duplicados.
	assert.Equal(t, []string{"<", "&", `"`}, cv.InvalidCharacters)
}

func TestValidateXMLContent_ReferenciaNumericaEsValida(t *testing.T) {
	cv := dgii.ValidateXMLContent("O&#39;Brien &#38; Sons")
	assert.True(t, cv.IsValid)
	assert.Empty(t, cv.InvalidCharacters)
}

func TestValidateXMLContent_AmpersandSueltoInvalido(t *testing.T) {
	// "&#" sin dígitos ni ";" no es referencia.
	cv := dgii.ValidateXMLContent("a&b")
	assert.False(t, cv.IsValid)
	assert.Equal(t, []string{"&"}, cv.InvalidCharacters)
}

// ──────────────────────────────────────────────────────────────────────────────
// EncodeForURL: tabla estática propia (QR embebido en XML), distinta del
// percent-encoding genérico usado en GenerateQRCodeURL. No unificar.
// ──────────────────────────────────────────────────────────────────────────────

func TestEncodeForURL_TablaEstatica(t *testing.T) {
	cases := map[string]string{
		" ":   "%20",
		"!":   "%21",
		`"`:   "%22",
		"#":   "%23",
		"$":   "%24",
		"&":   "%26",
		"'":   "%27",
		"(":   "%28",
		")":   "%29",
		"*":   "%2A",
		"+":   "%2B",
		",":   "%2C",
		"-":   "%2D",
		".":   "%2E",
		"/":   "%2F",
		":":   "%3A",
		";":   "%3B",
		"<":   "%3C",
		"=":   "%3D",
		">":   "%3E",
		"?":   "%3F",
		"@":   "%40",
		"[":   "%5B",
		"\\":  "%5C",
		"]":   "%5D",
		"^":   "%5E",
		"_":   "%5F",
		"`":   "%60",
		"abc": "abc",
	}
	for in, want := range cases {
		assert.Equal(t, want, dgii.EncodeForURL(in), "entrada %q", in)
	}
}

func TestEncodeForURL_PorcentajeNoSeCodifica(t *testing.T) {
	// La tabla no cubre %: distinto de encodeURIComponent a propósito.
	assert.Equal(t, "50%", dgii.EncodeForURL("50%"))
}

func TestValidateURLContent_DetectaCaracteresDeTabla(t *testing.T) {
	cv := dgii.ValidateURLContent("A-B.C")
	assert.False(t, cv.IsValid)
	assert.Equal(t, []string{"-", "."}, cv.InvalidCharacters)

	cv = dgii.ValidateURLContent("ABC123")
	assert.True(t, cv.IsValid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Etiquetas vacías: un <tag></tag> o <tag/> en el e-CF provoca rechazo DGII.
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateNoEmptyTags_DetectaAmbasFormas(t *testing.T) {
	xml := "<ECF><RNCEmisor>130000000</RNCEmisor><NombreComercial></NombreComercial><Telefono/></ECF>"
	et := dgii.ValidateNoEmptyTags(xml)
	assert.False(t, et.IsValid)
	assert.Equal(t, []string{"NombreComercial", "Telefono"}, et.EmptyTags)
}

func TestValidateNoEmptyTags_DocumentoLimpio(t *testing.T) {
	et := dgii.ValidateNoEmptyTags("<ECF><MontoTotal>1180.00</MontoTotal></ECF>")
	assert.True(t, et.IsValid)
	assert.Empty(t, et.EmptyTags)
}

func TestRemoveEmptyTags_EliminaYColapsaLineas(t *testing.T) {
	xml := "<Emisor>\n  <RNCEmisor>130000000</RNCEmisor>\n  <NombreComercial></NombreComercial>\n  <Fax/>\n</Emisor>"
	out := dgii.RemoveEmptyTags(xml)
	assert.NotContains(t, out, "NombreComercial")
	assert.NotContains(t, out, "Fax")
	assert.NotContains(t, out, "\n\n")
	assert.Contains(t, out, "<RNCEmisor>130000000</RNCEmisor>")
}

func TestRemoveEmptyTags_PadreQueQuedaVacio(t *testing.T) {
	// Al eliminar el hijo vacío, el padre queda <Comprador></Comprador> y cae también.
	out := dgii.RemoveEmptyTags("<ECF><Comprador><RNCComprador/></Comprador><MontoTotal>1.00</MontoTotal></ECF>")
	assert.NotContains(t, out, "Comprador")
	assert.Contains(t, out, "MontoTotal")
}

// TestRemoveEmptyTags_Idempotente propiedad: aplicar dos veces == aplicar una vez.
func TestRemoveEmptyTags_Idempotente(t *testing.T) {
	inputs := []string{
		"<a><b></b></a>",
		"<Emisor>\n  <Fax/>\n  <RNCEmisor>1</RNCEmisor>\n</Emisor>",
		"<ECF><MontoTotal>1180.00</MontoTotal></ECF>",
		"",
	}
	for _, in := range inputs {
		once := dgii.RemoveEmptyTags(in)
		twice := dgii.RemoveEmptyTags(once)
		assert.Equal(t, once, twice, "no idempotente para %q", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Wrappers y validación agregada
// ──────────────────────────────────────────────────────────────────────────────

func TestPrepareForXML_RecortaYEscapa(t *testing.T) {
	assert.Equal(t, "Juan &#38; Cía", dgii.PrepareForXML("  Juan & Cía  "))
}

func TestPrepareForQRCode_RecortaYCodifica(t *testing.T) {
	assert.Equal(t, "E31%2D2024", dgii.PrepareForQRCode(" E31-2024 "))
}

func TestValidateAndCleanXML_DocumentoValido(t *testing.T) {
	res := dgii.ValidateAndCleanXML("<ECF><MontoTotal>1180.00</MontoTotal></ECF>")
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "<ECF><MontoTotal>1180.00</MontoTotal></ECF>", res.CleanedXML)
}

func TestValidateAndCleanXML_LimpiaEtiquetasVacias(t *testing.T) {
	res := dgii.ValidateAndCleanXML("<ECF><Fax/><MontoTotal>1.00</MontoTotal></ECF>")
	require.False(t, res.IsValid)
	assert.NotEmpty(t, res.Errors)
	// Siempre entrega el mejor documento posible aunque sea inválido.
	assert.NotContains(t, res.CleanedXML, "Fax")
	assert.Contains(t, res.CleanedXML, "MontoTotal")
}

func TestValidateAndCleanXML_ContenidoSinEscapar(t *testing.T) {
	res := dgii.ValidateAndCleanXML("<ECF><RazonSocialEmisor>Juan & Cía</RazonSocialEmisor></ECF>")
	assert.False(t, res.IsValid)
	assert.NotEmpty(t, res.Errors)
}
