package dgii_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// Vectores calculados con el módulo 11 de la DGII (pesos 7,9,8,6,5,4,3,2):
//   10102333 → suma 52, resto 8, dígito 11-8 = 3
//   13000000 → suma 34, resto 1, dígito 1
func TestValidateRNC_Validos(t *testing.T) {
	assert.NoError(t, dgii.ValidateRNC("101023333"))
	assert.NoError(t, dgii.ValidateRNC("130000001"))
	// Con formato de guiones
	assert.NoError(t, dgii.ValidateRNC("1-01-02333-3"))
}

func TestValidateRNC_DigitoIncorrecto(t *testing.T) {
	err := dgii.ValidateRNC("101023334")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dígito verificador")
}

func TestValidateRNC_LongitudIncorrecta(t *testing.T) {
	assert.Error(t, dgii.ValidateRNC("12345"))
	assert.Error(t, dgii.ValidateRNC("1234567890"))
}

func TestComputeRNCCheckDigit(t *testing.T) {
	d, err := dgii.ComputeRNCCheckDigit("10102333")
	require.NoError(t, err)
	assert.Equal(t, byte('3'), d)

	d, err = dgii.ComputeRNCCheckDigit("13000000")
	require.NoError(t, err)
	assert.Equal(t, byte('1'), d)

	_, err = dgii.ComputeRNCCheckDigit("123")
	assert.Error(t, err)
}

// Vector Luhn: 0010000000 → suma 1, dígito (10-1)%10 = 9.
func TestValidateCedula(t *testing.T) {
	assert.NoError(t, dgii.ValidateCedula("00100000009"))
	assert.Error(t, dgii.ValidateCedula("00100000008"))
	assert.Error(t, dgii.ValidateCedula("123"))
}

func TestValidateDocumentoIdentidad(t *testing.T) {
	assert.NoError(t, dgii.ValidateDocumentoIdentidad("101023333"))
	assert.NoError(t, dgii.ValidateDocumentoIdentidad("001-0000000-9"))
	assert.Error(t, dgii.ValidateDocumentoIdentidad("1234"))
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "101023333", dgii.OnlyDigits("1-01-02333-3"))
	assert.Equal(t, "", dgii.OnlyDigits("E-CF"))
}
