package ecf_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjidavila/ecf-rd/internal/domain/ecf"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: Factura de Consumo (tipo 32) con una línea,
// cantidad 2 × 500.00, tasa 18, sin descuento:
//
//	gravado18  = 1000.00
//	ITBIS18    =  180.00
//	montoTotal = 1180.00
// ──────────────────────────────────────────────────────────────────────────────

func linea(n int, cantidad, precio float64, tasa string) *entity.ComprobanteDetalle {
	return &entity.ComprobanteDetalle{
		NumeroLinea:    n,
		NombreItem:     "Ítem de prueba",
		Cantidad:       decimal.NewFromFloat(cantidad),
		PrecioUnitario: decimal.NewFromFloat(precio),
		Descuento:      decimal.Zero,
		TasaITBIS:      tasa,
	}
}

func TestCalcularTotales_EscenarioReferencia(t *testing.T) {
	totales, diags := ecf.CalcularTotales([]*entity.ComprobanteDetalle{
		linea(1, 2, 500.00, "18"),
	})

	require.Empty(t, diags)
	assert.Equal(t, "1000.00", totales.MontoGravado18.StringFixed(2))
	assert.Equal(t, "180.00", totales.TotalITBIS18.StringFixed(2))
	assert.Equal(t, "1180.00", totales.MontoTotal.StringFixed(2))
	assert.Equal(t, "0.00", totales.MontoGravado16.StringFixed(2))
	assert.Equal(t, "0.00", totales.MontoExento.StringFixed(2))
}

func TestCalcularTotales_CuatroTramos(t *testing.T) {
	totales, diags := ecf.CalcularTotales([]*entity.ComprobanteDetalle{
		linea(1, 1, 100.00, "18"),
		linea(2, 1, 200.00, "16"),
		linea(3, 1, 300.00, "0"),
		linea(4, 1, 400.00, "E"),
	})

	require.Empty(t, diags)
	assert.Equal(t, "100.00", totales.MontoGravado18.StringFixed(2))
	assert.Equal(t, "200.00", totales.MontoGravado16.StringFixed(2))
	assert.Equal(t, "300.00", totales.MontoGravado0.StringFixed(2))
	assert.Equal(t, "400.00", totales.MontoExento.StringFixed(2))
	assert.Equal(t, "18.00", totales.TotalITBIS18.StringFixed(2))
	assert.Equal(t, "32.00", totales.TotalITBIS16.StringFixed(2))
	// 1000 + 18 + 32
	assert.Equal(t, "1050.00", totales.MontoTotal.StringFixed(2))
	assert.Equal(t, "50.00", totales.TotalITBIS().StringFixed(2))
}

// TestCalcularTotales_ConservacionDeTramos propiedad: con solo etiquetas
// canónicas, la suma de subtotales es exactamente la suma de montos de línea
// (decimal exacto, sin tolerancia de coma flotante).
func TestCalcularTotales_ConservacionDeTramos(t *testing.T) {
	detalles := []*entity.ComprobanteDetalle{
		linea(1, 3, 19.99, "18"),
		linea(2, 7, 0.37, "16"),
		linea(3, 11, 123.45, "0"),
		linea(4, 1, 999.99, "E"),
		linea(5, 2, 49.99, "18"),
	}
	totales, diags := ecf.CalcularTotales(detalles)
	require.Empty(t, diags)

	sumaLineas := decimal.Zero
	for _, d := range detalles {
		sumaLineas = sumaLineas.Add(d.MontoItem())
	}
	sumaTramos := totales.MontoGravado18.
		Add(totales.MontoGravado16).
		Add(totales.MontoGravado0).
		Add(totales.MontoExento)

	assert.True(t, sumaTramos.Equal(sumaLineas),
		"suma de tramos (%s) debe igualar la suma de líneas (%s)", sumaTramos, sumaLineas)

	esperado := sumaTramos.Add(totales.TotalITBIS18).Add(totales.TotalITBIS16)
	assert.True(t, totales.MontoTotal.Equal(esperado))
}

func TestCalcularTotales_DescuentoPorLinea(t *testing.T) {
	d := linea(1, 2, 500.00, "18")
	d.Descuento = decimal.NewFromFloat(100.00)
	totales, _ := ecf.CalcularTotales([]*entity.ComprobanteDetalle{d})

	assert.Equal(t, "900.00", totales.MontoGravado18.StringFixed(2))
	assert.Equal(t, "162.00", totales.TotalITBIS18.StringFixed(2))
	assert.Equal(t, "1062.00", totales.MontoTotal.StringFixed(2))
}

func TestCalcularTotales_Retenciones(t *testing.T) {
	d := linea(1, 2, 500.00, "18")
	d.ITBISRetenido = decimal.NewFromFloat(54.00)
	d.ISRRetenido = decimal.NewFromFloat(20.00)
	totales, _ := ecf.CalcularTotales([]*entity.ComprobanteDetalle{d})

	assert.Equal(t, "54.00", totales.TotalITBISRetenido.StringFixed(2))
	assert.Equal(t, "20.00", totales.TotalISRRetenido.StringFixed(2))
	// 1000 + 180 − 54 − 20
	assert.Equal(t, "1106.00", totales.MontoTotal.StringFixed(2))
}

// TestCalcularTotales_TasaNoReconocida comportamiento heredado y documentado:
// una etiqueta fuera de {18,16,0,E} no aporta a ningún tramo ni al total,
// pero se reporta como diagnóstico en lugar de perderse en silencio.
func TestCalcularTotales_TasaNoReconocida(t *testing.T) {
	totales, diags := ecf.CalcularTotales([]*entity.ComprobanteDetalle{
		linea(1, 1, 100.00, "18"),
		linea(2, 1, 250.00, "27"), // etiqueta inexistente
	})

	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].NumeroLinea)
	assert.Equal(t, "27", diags[0].Tasa)
	assert.Equal(t, "250.00", diags[0].Monto.StringFixed(2))
	// El monto de la línea 2 no está en ningún tramo ni en el total.
	assert.Equal(t, "100.00", totales.MontoGravado18.StringFixed(2))
	assert.Equal(t, "118.00", totales.MontoTotal.StringFixed(2))
}

func TestCalcularTotales_SinDerivaDeCentavos(t *testing.T) {
	// 300 líneas de 0.10 con tasa 18: en float64 acumula deriva; decimal no.
	var detalles []*entity.ComprobanteDetalle
	for i := 1; i <= 300; i++ {
		detalles = append(detalles, linea(i, 1, 0.10, "18"))
	}
	totales, _ := ecf.CalcularTotales(detalles)
	assert.Equal(t, "30.00", totales.MontoGravado18.StringFixed(2))
	assert.Equal(t, "5.40", totales.TotalITBIS18.StringFixed(2))
	assert.Equal(t, "35.40", totales.MontoTotal.StringFixed(2))
}

func TestAplicarTotales_CopiaAlComprobante(t *testing.T) {
	c := &entity.Comprobante{TipoECF: "32"}
	diags := ecf.AplicarTotales(c, []*entity.ComprobanteDetalle{linea(1, 2, 500.00, "18")})

	assert.Empty(t, diags)
	assert.Equal(t, "1000.00", c.MontoGravado18.StringFixed(2))
	assert.Equal(t, "180.00", c.TotalITBIS18.StringFixed(2))
	assert.Equal(t, "1180.00", c.MontoTotal.StringFixed(2))
}
