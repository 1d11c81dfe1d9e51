package facturacion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain"
)

func TestClienteCreate_ConRNCValido(t *testing.T) {
	uc := facturacion.NewClienteUseCase(newFakeClienteRepo())

	resp, err := uc.Create(empresaIDTest, dto.CreateClienteRequest{
		RNC:         "101000007",
		RazonSocial: "Importadora del Este SRL",
		Provincia:   "La Altagracia",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, empresaIDTest, resp.EmpresaID)
	assert.Equal(t, "101000007", resp.RNC)
	assert.Equal(t, "Importadora del Este SRL", resp.RazonSocial)
}

func TestClienteCreate_ConCedula(t *testing.T) {
	uc := facturacion.NewClienteUseCase(newFakeClienteRepo())

	// Cédula de 11 dígitos con dígito verificador correcto
	resp, err := uc.Create(empresaIDTest, dto.CreateClienteRequest{
		RNC:         "00113918205",
		RazonSocial: "Juan Pérez",
	})
	require.NoError(t, err)
	assert.Equal(t, "00113918205", resp.RNC)
}

func TestClienteCreate_ConIdentificadorExtranjero(t *testing.T) {
	uc := facturacion.NewClienteUseCase(newFakeClienteRepo())

	resp, err := uc.Create(empresaIDTest, dto.CreateClienteRequest{
		IdentificadorExtranjero: "PAS-X123456",
		RazonSocial:             "Overseas Trading Inc",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.RNC)
	assert.Equal(t, "PAS-X123456", resp.IdentificadorExtranjero)
}

func TestClienteCreate_Errores(t *testing.T) {
	casos := []struct {
		nombre string
		in     dto.CreateClienteRequest
	}{
		{"sin razón social", dto.CreateClienteRequest{RNC: "101000007"}},
		{"sin RNC ni identificador extranjero", dto.CreateClienteRequest{RazonSocial: "Sin Documento SRL"}},
		{"RNC e identificador a la vez", dto.CreateClienteRequest{
			RNC: "101000007", IdentificadorExtranjero: "PAS-1", RazonSocial: "Ambos SRL",
		}},
		{"RNC con dígito verificador inválido", dto.CreateClienteRequest{
			RNC: "101000008", RazonSocial: "RNC Malo SRL",
		}},
		{"RNC con largo inválido", dto.CreateClienteRequest{
			RNC: "12345", RazonSocial: "Largo Malo SRL",
		}},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			uc := facturacion.NewClienteUseCase(newFakeClienteRepo())
			_, err := uc.Create(empresaIDTest, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestClienteCreate_RNCDuplicadoEnEmpresa(t *testing.T) {
	uc := facturacion.NewClienteUseCase(newFakeClienteRepo(clienteDePrueba()))

	_, err := uc.Create(empresaIDTest, dto.CreateClienteRequest{
		RNC:         "101000007",
		RazonSocial: "Otro Nombre SRL",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestClienteGetByID_ValidaPertenencia(t *testing.T) {
	uc := facturacion.NewClienteUseCase(newFakeClienteRepo(clienteDePrueba()))

	resp, err := uc.GetByID(empresaIDTest, clienteIDTest)
	require.NoError(t, err)
	assert.Equal(t, "Cliente Uno SRL", resp.RazonSocial)

	_, err = uc.GetByID("otra-empresa", clienteIDTest)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(empresaIDTest, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClienteDelete_ValidaPertenencia(t *testing.T) {
	repo := newFakeClienteRepo(clienteDePrueba())
	uc := facturacion.NewClienteUseCase(repo)

	err := uc.Delete("otra-empresa", clienteIDTest)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Delete(empresaIDTest, clienteIDTest))
	_, err = uc.GetByID(empresaIDTest, clienteIDTest)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
