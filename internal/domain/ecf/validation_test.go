package ecf_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjidavila/ecf-rd/internal/domain/ecf"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
)

func TestValidateENCF(t *testing.T) {
	assert.NoError(t, ecf.ValidateENCF("E310000000001", "31"))
	assert.NoError(t, ecf.ValidateENCF("E320000000001", "32"))
	assert.NoError(t, ecf.ValidateENCF("E470000009999", "47"))

	// Tipo embebido no coincide con el declarado.
	assert.Error(t, ecf.ValidateENCF("E310000000001", "32"))
	// Formato: serie B (NCF de papel), longitud incorrecta, tipo inexistente.
	assert.Error(t, ecf.ValidateENCF("B0100000001", "31"))
	assert.Error(t, ecf.ValidateENCF("E31000001", "31"))
	assert.Error(t, ecf.ValidateENCF("E420000000001", "42"))
}

func emisorValido() *entity.Empresa {
	return &entity.Empresa{
		RNC:         "101023333",
		RazonSocial: "Comercial Quisqueya SRL",
		Direccion:   "Av. 27 de Febrero 100",
		Municipio:   "Santo Domingo de Guzmán",
		Provincia:   "Distrito Nacional",
	}
}

func comprobanteValido() (*entity.Comprobante, []*entity.ComprobanteDetalle) {
	c := &entity.Comprobante{
		TipoECF: "32",
		ENCF:    "E320000000001",
	}
	d := []*entity.ComprobanteDetalle{{
		NumeroLinea:    1,
		NombreItem:     "Servicio de consultoría",
		Cantidad:       decimal.NewFromInt(1),
		PrecioUnitario: decimal.NewFromFloat(500.00),
		TasaITBIS:      "18",
	}}
	return c, d
}

func TestValidateComprobante_Valido(t *testing.T) {
	c, d := comprobanteValido()
	assert.NoError(t, ecf.ValidateComprobante(c, d, emisorValido()))
}

func TestValidateComprobante_EmisorRNCInvalido(t *testing.T) {
	c, d := comprobanteValido()
	emisor := emisorValido()
	emisor.RNC = "101023334"
	err := ecf.ValidateComprobante(c, d, emisor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ecf.ErrComprobanteInvalido)
}

func TestValidateComprobante_SinLineas(t *testing.T) {
	c, _ := comprobanteValido()
	err := ecf.ValidateComprobante(c, nil, emisorValido())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "al menos una línea")
}

func TestValidateComprobante_LineasFueraDeSecuencia(t *testing.T) {
	c, d := comprobanteValido()
	d[0].NumeroLinea = 2
	err := ecf.ValidateComprobante(c, d, emisorValido())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuera de secuencia")
}

func TestValidateComprobante_NotaCreditoSinReferencia(t *testing.T) {
	c, d := comprobanteValido()
	c.TipoECF = "34"
	c.ENCF = "E340000000001"
	err := ecf.ValidateComprobante(c, d, emisorValido())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NCFModificado")
}

func TestValidateComprobante_ISCSinGradosAlcohol(t *testing.T) {
	c, d := comprobanteValido()
	d[0].ISC = &entity.ImpuestoSelectivoConsumo{
		MontoISCEspecifico: decimal.NewFromFloat(50.00),
	}
	err := ecf.ValidateComprobante(c, d, emisorValido())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grados de alcohol")
}

func TestValidateComprobante_AcumulaErrores(t *testing.T) {
	// errors.Join: todos los problemas se reportan juntos, no solo el primero.
	c := &entity.Comprobante{TipoECF: "99", ENCF: "X"}
	err := ecf.ValidateComprobante(c, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tipo de e-CF desconocido")
	assert.Contains(t, err.Error(), "emisor requerido")
	assert.Contains(t, err.Error(), "al menos una línea")
}
