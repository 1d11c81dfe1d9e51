package facturacion_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain"
)

func TestSecuenciaCreate_ActivaElRango(t *testing.T) {
	uc := facturacion.NewSecuenciaUseCase(newFakeSecuenciaRepo())

	resp, err := uc.Create(context.Background(), empresaIDTest, dto.CreateSecuenciaRequest{
		TipoECF:          "31",
		Desde:            500,
		Hasta:            1000,
		FechaVencimiento: time.Now().AddDate(0, 6, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.Activa)
	assert.Equal(t, int64(500), resp.Proximo)
	assert.Equal(t, int64(501), resp.Disponibles)
}

// Registrar un rango nuevo del mismo tipo desactiva el anterior: nunca hay
// dos secuencias activas para un mismo tipo de e-CF.
func TestSecuenciaCreate_DesactivaLaAnterior(t *testing.T) {
	repo := newFakeSecuenciaRepo(secuenciaDePrueba("32"))
	uc := facturacion.NewSecuenciaUseCase(repo)

	resp, err := uc.Create(context.Background(), empresaIDTest, dto.CreateSecuenciaRequest{
		TipoECF:          "32",
		Desde:            101,
		Hasta:            200,
		FechaVencimiento: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	anterior, _ := repo.GetByID(context.Background(), "sec-32")
	assert.False(t, anterior.Activa)

	activa, _ := repo.GetActivaByEmpresaAndTipo(context.Background(), empresaIDTest, "32")
	require.NotNil(t, activa)
	assert.Equal(t, resp.ID, activa.ID)
}

// Secuencias de tipos distintos conviven activas.
func TestSecuenciaCreate_NoTocaOtrosTipos(t *testing.T) {
	repo := newFakeSecuenciaRepo(secuenciaDePrueba("31"))
	uc := facturacion.NewSecuenciaUseCase(repo)

	_, err := uc.Create(context.Background(), empresaIDTest, dto.CreateSecuenciaRequest{
		TipoECF:          "32",
		Desde:            1,
		Hasta:            50,
		FechaVencimiento: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	otra, _ := repo.GetActivaByEmpresaAndTipo(context.Background(), empresaIDTest, "31")
	require.NotNil(t, otra)
	assert.True(t, otra.Activa)
}

func TestSecuenciaCreate_Errores(t *testing.T) {
	vence := time.Now().AddDate(1, 0, 0)
	casos := []struct {
		nombre string
		in     dto.CreateSecuenciaRequest
	}{
		{"tipo desconocido", dto.CreateSecuenciaRequest{TipoECF: "99", Desde: 1, Hasta: 10, FechaVencimiento: vence}},
		{"desde cero", dto.CreateSecuenciaRequest{TipoECF: "31", Desde: 0, Hasta: 10, FechaVencimiento: vence}},
		{"hasta menor que desde", dto.CreateSecuenciaRequest{TipoECF: "31", Desde: 10, Hasta: 9, FechaVencimiento: vence}},
		{"vencimiento en el pasado", dto.CreateSecuenciaRequest{
			TipoECF: "31", Desde: 1, Hasta: 10, FechaVencimiento: time.Now().AddDate(0, 0, -1),
		}},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			uc := facturacion.NewSecuenciaUseCase(newFakeSecuenciaRepo())
			_, err := uc.Create(context.Background(), empresaIDTest, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSecuenciaList_CalculaDisponibles(t *testing.T) {
	sec := secuenciaDePrueba("32")
	sec.Proximo = 41
	uc := facturacion.NewSecuenciaUseCase(newFakeSecuenciaRepo(sec))

	resp, err := uc.List(context.Background(), empresaIDTest)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(60), resp.Items[0].Disponibles)
}

func TestSecuenciaDesactivar_ValidaPertenencia(t *testing.T) {
	repo := newFakeSecuenciaRepo(secuenciaDePrueba("32"))
	uc := facturacion.NewSecuenciaUseCase(repo)

	err := uc.Desactivar(context.Background(), "otra-empresa", "sec-32")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Desactivar(context.Background(), empresaIDTest, "sec-32"))
	sec, _ := repo.GetByID(context.Background(), "sec-32")
	assert.False(t, sec.Activa)

	err = uc.Desactivar(context.Background(), empresaIDTest, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
