// Package dgii contiene catálogos, validaciones y transformaciones de texto
// alineados al formato de Comprobantes Fiscales Electrónicos (e-CF) de la
// DGII (República Dominicana).
package dgii

import (
	"strings"
)

// Caracteres especiales XML y sus referencias numéricas decimales exigidas
// por el validador de la DGII (no se usan las entidades con nombre &amp; etc.).
const (
	refAmpersand = "&#38;"
	refLessThan  = "&#60;"
	refGreater   = "&#62;"
	refQuote     = "&#34;"
	refApos      = "&#39;"
)

// EscapeXMLCharacters reemplaza & < > " ' por su referencia numérica decimal.
// Escaneo de una sola pasada: el & ya insertado por un reemplazo nunca se
// vuelve a escapar. Entrada vacía retorna la entrada sin cambios.
func EscapeXMLCharacters(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		switch r {
		case '&':
			b.WriteString(refAmpersand)
		case '<':
			b.WriteString(refLessThan)
		case '>':
			b.WriteString(refGreater)
		case '"':
			b.WriteString(refQuote)
		case '\'':
			b.WriteString(refApos)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// urlEncodingTable tabla estática carácter → %XX para el contenido de códigos QR
// embebido en otros XML. Es deliberadamente más estrecha que el percent-encoding
// genérico de URI (no cubre %, ni caracteres no ASCII): la DGII espera
// exactamente este subconjunto. No unificar con url.QueryEscape.
var urlEncodingTable = map[rune]string{
	' ':  "%20",
	'!':  "%21",
	'"':  "%22",
	'#':  "%23",
	'$':  "%24",
	'&':  "%26",
	'\'': "%27",
	'(':  "%28",
	')':  "%29",
	'*':  "%2A",
	'+':  "%2B",
	',':  "%2C",
	'-':  "%2D",
	'.':  "%2E",
	'/':  "%2F",
	':':  "%3A",
	';':  "%3B",
	'<':  "%3C",
	'=':  "%3D",
	'>':  "%3E",
	'?':  "%3F",
	'@':  "%40",
	'[':  "%5B",
	'\\': "%5C",
	']':  "%5D",
	'^':  "%5E",
	'_':  "%5F",
	'`':  "%60",
}

// EncodeForURL aplica la tabla estática de percent-encoding del QR.
// Entrada vacía retorna la entrada sin cambios.
func EncodeForURL(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if enc, ok := urlEncodingTable[r]; ok {
			b.WriteString(enc)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContentValidation resultado de validar texto contra un conjunto de caracteres.
// InvalidCharacters conserva el orden de primera aparición, sin duplicados.
type ContentValidation struct {
	IsValid           bool
	InvalidCharacters []string
}

// ValidateXMLContent busca & < > " ' sin escapar. Un & que inicia una
// referencia numérica (&#NN;) se considera ya escapado.
func ValidateXMLContent(text string) ContentValidation {
	result := ContentValidation{IsValid: true}
	seen := map[byte]bool{}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '&':
			if isNumericReference(text[i:]) {
				continue
			}
		case '<', '>', '"', '\'':
		default:
			continue
		}
		if !seen[c] {
			seen[c] = true
			result.InvalidCharacters = append(result.InvalidCharacters, string(c))
		}
	}
	result.IsValid = len(result.InvalidCharacters) == 0
	return result
}

// isNumericReference reporta si s comienza con una referencia &#NN;.
func isNumericReference(s string) bool {
	if len(s) < 4 || s[0] != '&' || s[1] != '#' {
		return false
	}
	i := 2
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > 2 && i < len(s) && s[i] == ';'
}

// ValidateURLContent busca caracteres de la tabla de EncodeForURL presentes sin codificar.
func ValidateURLContent(text string) ContentValidation {
	result := ContentValidation{IsValid: true}
	seen := map[rune]bool{}
	for _, r := range text {
		if _, ok := urlEncodingTable[r]; !ok {
			continue
		}
		if !seen[r] {
			seen[r] = true
			result.InvalidCharacters = append(result.InvalidCharacters, string(r))
		}
	}
	result.IsValid = len(result.InvalidCharacters) == 0
	return result
}

// PrepareForXML recorta espacios y escapa el texto para insertarlo en un elemento XML.
func PrepareForXML(text string) string {
	return EscapeXMLCharacters(strings.TrimSpace(text))
}

// PrepareForQRCode recorta espacios y codifica el texto para embeberlo en un QR.
func PrepareForQRCode(text string) string {
	return EncodeForURL(strings.TrimSpace(text))
}

// EmptyTagValidation resultado de la detección de etiquetas vacías.
type EmptyTagValidation struct {
	IsValid   bool
	EmptyTags []string
}

// ValidateNoEmptyTags detecta <tag></tag> y <tag/>. Un elemento vacío es un
// fallo de validación del esquema DGII. Retorna los nombres distintos.
func ValidateNoEmptyTags(xml string) EmptyTagValidation {
	result := EmptyTagValidation{IsValid: true}
	seen := map[string]bool{}
	for _, name := range findEmptyTags(xml) {
		if !seen[name] {
			seen[name] = true
			result.EmptyTags = append(result.EmptyTags, name)
		}
	}
	result.IsValid = len(result.EmptyTags) == 0
	return result
}

// RemoveEmptyTags elimina <tag></tag> y <tag/> hasta punto fijo (un padre que
// queda vacío también se elimina) y luego descarta las líneas en blanco
// resultantes. Idempotente: aplicarla dos veces produce el mismo resultado.
func RemoveEmptyTags(xml string) string {
	out := xml
	for {
		next := removeEmptyTagsOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return collapseBlankLines(out)
}

// removeEmptyTagsOnce hace una pasada de eliminación sobre ambas formas.
func removeEmptyTagsOnce(xml string) string {
	var b strings.Builder
	b.Grow(len(xml))
	i := 0
	for i < len(xml) {
		if xml[i] == '<' {
			if end, ok := matchEmptyTag(xml[i:]); ok {
				i += end
				continue
			}
		}
		b.WriteByte(xml[i])
		i++
	}
	return b.String()
}

// matchEmptyTag reconoce en el inicio de s una etiqueta vacía (<tag/> o
// <tag></tag>, con atributos opcionales) y retorna su longitud.
func matchEmptyTag(s string) (int, bool) {
	name, rest, selfClosing, ok := parseOpenTag(s)
	if !ok {
		return 0, false
	}
	if selfClosing {
		return rest, true
	}
	// Forma <tag></tag>: el cierre debe seguir inmediatamente.
	closing := "</" + name + ">"
	if strings.HasPrefix(s[rest:], closing) {
		return rest + len(closing), true
	}
	return 0, false
}

// parseOpenTag analiza <name ...> o <name ...//> al inicio de s.
// Retorna el nombre, la longitud consumida y si la etiqueta es autocontenida.
func parseOpenTag(s string) (name string, length int, selfClosing bool, ok bool) {
	if len(s) < 3 || s[0] != '<' || !isNameStart(s[1]) {
		return "", 0, false, false
	}
	i := 1
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	name = s[1:i]
	// atributos (sin < ni > internos)
	for i < len(s) && s[i] != '>' && s[i] != '<' {
		i++
	}
	if i >= len(s) || s[i] != '>' {
		return "", 0, false, false
	}
	selfClosing = s[i-1] == '/'
	return name, i + 1, selfClosing, true
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '.' || c == ':'
}

// findEmptyTags lista (con repeticiones) los nombres de etiquetas vacías.
func findEmptyTags(xml string) []string {
	var names []string
	i := 0
	for i < len(xml) {
		if xml[i] != '<' {
			i++
			continue
		}
		name, length, selfClosing, ok := parseOpenTag(xml[i:])
		if !ok {
			i++
			continue
		}
		if selfClosing {
			names = append(names, name)
			i += length
			continue
		}
		if strings.HasPrefix(xml[i+length:], "</"+name+">") {
			names = append(names, name)
			i += length + len(name) + 3
			continue
		}
		i += length
	}
	return names
}

// collapseBlankLines descarta las líneas compuestas solo de espacios.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// CleanXMLResult resultado agregado de ValidateAndCleanXML.
// CleanedXML siempre trae el mejor documento posible, aun con IsValid en false.
type CleanXMLResult struct {
	IsValid    bool
	CleanedXML string
	Errors     []string
}

// ValidateAndCleanXML corre la detección de etiquetas vacías (eliminándolas si
// aparecen) y la validación de caracteres sin escapar en los nodos de texto,
// acumulando mensajes legibles. Nunca lanza: los hallazgos son datos.
func ValidateAndCleanXML(xml string) CleanXMLResult {
	result := CleanXMLResult{IsValid: true, CleanedXML: xml}

	if empty := ValidateNoEmptyTags(xml); !empty.IsValid {
		result.Errors = append(result.Errors,
			"etiquetas vacías detectadas: "+strings.Join(empty.EmptyTags, ", "))
		result.CleanedXML = RemoveEmptyTags(xml)
	}

	for _, segment := range textSegments(result.CleanedXML) {
		if cv := ValidateXMLContent(segment); !cv.IsValid {
			result.Errors = append(result.Errors,
				"caracteres sin escapar en contenido: "+strings.Join(cv.InvalidCharacters, " "))
			break
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// textSegments extrae los nodos de texto (entre > y <) de un XML.
func textSegments(xml string) []string {
	var segments []string
	start := -1
	for i := 0; i < len(xml); i++ {
		switch xml[i] {
		case '>':
			start = i + 1
		case '<':
			if start >= 0 && i > start {
				segments = append(segments, xml[start:i])
			}
			start = -1
		}
	}
	return segments
}
