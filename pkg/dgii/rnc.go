package dgii

import (
	"fmt"
	"unicode"
)

// pesos para el dígito verificador del RNC (módulo 11, DGII).
// Se aplican a los 8 primeros dígitos del RNC, de izquierda a derecha.
var rncWeights = [8]int{7, 9, 8, 6, 5, 4, 3, 2}

// ValidateRNC valida que el RNC (con o sin guiones) tenga 9 dígitos y un
// dígito verificador correcto según el algoritmo módulo 11 de la DGII.
// rnc puede ser "1-01-02333-3" o "101023333".
func ValidateRNC(rnc string) error {
	digits := extractDigits(rnc)
	if len(digits) != 9 {
		return fmt.Errorf("dgii: RNC debe tener 9 dígitos, se encontraron %d", len(digits))
	}
	expected, err := ComputeRNCCheckDigit(rnc)
	if err != nil {
		return err
	}
	if digits[8] != expected {
		return fmt.Errorf("dgii: dígito verificador del RNC inválido: esperado %c, recibido %c", expected, digits[8])
	}
	return nil
}

// ComputeRNCCheckDigit calcula el dígito verificador para los 8 primeros
// dígitos del RNC. Útil para completar el RNC antes de registrarlo.
func ComputeRNCCheckDigit(rnc string) (byte, error) {
	digits := extractDigits(rnc)
	if len(digits) < 8 {
		return 0, fmt.Errorf("dgii: se requieren al menos 8 dígitos para calcular el dígito verificador, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits[:8] {
		sum += int(d-'0') * rncWeights[i]
	}
	remainder := sum % 11
	switch remainder {
	case 0:
		return '2', nil
	case 1:
		return '1', nil
	default:
		return byte('0' + (11 - remainder)), nil
	}
}

// ValidateCedula valida una cédula dominicana de 11 dígitos con el algoritmo
// tipo Luhn (pesos alternos 1,2; los productos de dos cifras suman sus dígitos).
func ValidateCedula(cedula string) error {
	digits := extractDigits(cedula)
	if len(digits) != 11 {
		return fmt.Errorf("dgii: cédula debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits[:10] {
		product := int(d - '0')
		if i%2 == 1 {
			product *= 2
			if product > 9 {
				product -= 9
			}
		}
		sum += product
	}
	expected := byte('0' + (10-sum%10)%10)
	if digits[10] != expected {
		return fmt.Errorf("dgii: dígito verificador de la cédula inválido: esperado %c, recibido %c", expected, digits[10])
	}
	return nil
}

// ValidateDocumentoIdentidad decide entre RNC (9 dígitos) y cédula (11 dígitos).
func ValidateDocumentoIdentidad(doc string) error {
	switch len(extractDigits(doc)) {
	case 9:
		return ValidateRNC(doc)
	case 11:
		return ValidateCedula(doc)
	}
	return fmt.Errorf("dgii: documento debe ser RNC (9 dígitos) o cédula (11 dígitos)")
}

// OnlyDigits deja solo dígitos 0-9 (para RNC y eNCF en nombres de archivo y QR).
func OnlyDigits(s string) string {
	return string(extractDigits(s))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
