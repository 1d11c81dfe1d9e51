// Package ecf contiene la lógica de dominio del Comprobante Fiscal
// Electrónico: cálculo de subtotales por tramo de ITBIS, total general y
// validaciones previas a la generación del XML.
package ecf

import (
	"github.com/shopspring/decimal"

	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// Tasas vigentes de ITBIS. Decimales exactos: la acumulación en coma flotante
// nativa produce derivas de centavo con muchas líneas.
var (
	tasa18 = decimal.NewFromFloat(0.18)
	tasa16 = decimal.NewFromFloat(0.16)
)

// Totales agrupa los subtotales por tramo, los impuestos y el total general
// de un comprobante. Todos los montos se redondean a 2 decimales al formatear,
// no al acumular.
type Totales struct {
	MontoGravado18 decimal.Decimal
	MontoGravado16 decimal.Decimal
	MontoGravado0  decimal.Decimal
	MontoExento    decimal.Decimal

	TotalITBIS18 decimal.Decimal // MontoGravado18 × 18%
	TotalITBIS16 decimal.Decimal // MontoGravado16 × 16%

	TotalITBISRetenido decimal.Decimal
	TotalISRRetenido   decimal.Decimal

	MontoTotal decimal.Decimal
}

// TasaNoReconocida diagnóstico de una línea cuya etiqueta de tasa no es
// ninguna de las cuatro canónicas. La línea se lista igual en DetallesItems
// pero su monto no aporta a ningún subtotal ni al total: el comportamiento
// histórico se conserva y se reporta en lugar de corregirse con un tramo por
// defecto, porque la norma DGII no define cuál aplicaría.
type TasaNoReconocida struct {
	NumeroLinea int
	Tasa        string
	Monto       decimal.Decimal
}

// CalcularTotales recorre las líneas una sola vez, en orden de entrada, y
// deriva los cuatro subtotales, sus ITBIS, los retenidos y el total general:
//
//	MontoTotal = Σ subtotales + Σ ITBIS − ITBIS retenido − ISR retenido
//
// Nunca rechaza la entrada: las etiquetas desconocidas se devuelven como
// diagnósticos para que el llamador decida.
func CalcularTotales(detalles []*entity.ComprobanteDetalle) (*Totales, []TasaNoReconocida) {
	t := &Totales{
		MontoGravado18:     decimal.Zero,
		MontoGravado16:     decimal.Zero,
		MontoGravado0:      decimal.Zero,
		MontoExento:        decimal.Zero,
		TotalITBISRetenido: decimal.Zero,
		TotalISRRetenido:   decimal.Zero,
	}
	var noReconocidas []TasaNoReconocida

	for _, d := range detalles {
		monto := d.MontoItem()
		switch d.TasaITBIS {
		case dgii.TasaITBIS18:
			t.MontoGravado18 = t.MontoGravado18.Add(monto)
		case dgii.TasaITBIS16:
			t.MontoGravado16 = t.MontoGravado16.Add(monto)
		case dgii.TasaITBIS0:
			t.MontoGravado0 = t.MontoGravado0.Add(monto)
		case dgii.TasaITBISExento:
			t.MontoExento = t.MontoExento.Add(monto)
		default:
			noReconocidas = append(noReconocidas, TasaNoReconocida{
				NumeroLinea: d.NumeroLinea,
				Tasa:        d.TasaITBIS,
				Monto:       monto,
			})
		}
		t.TotalITBISRetenido = t.TotalITBISRetenido.Add(d.ITBISRetenido)
		t.TotalISRRetenido = t.TotalISRRetenido.Add(d.ISRRetenido)
	}

	t.TotalITBIS18 = t.MontoGravado18.Mul(tasa18)
	t.TotalITBIS16 = t.MontoGravado16.Mul(tasa16)

	t.MontoTotal = t.MontoGravado18.
		Add(t.MontoGravado16).
		Add(t.MontoGravado0).
		Add(t.MontoExento).
		Add(t.TotalITBIS18).
		Add(t.TotalITBIS16).
		Sub(t.TotalITBISRetenido).
		Sub(t.TotalISRRetenido)

	return t, noReconocidas
}

// AplicarTotales calcula y copia los totales al comprobante (los únicos campos
// que la agregación muta). Retorna los diagnósticos de tasas no reconocidas.
func AplicarTotales(c *entity.Comprobante, detalles []*entity.ComprobanteDetalle) []TasaNoReconocida {
	t, diags := CalcularTotales(detalles)
	c.MontoGravado18 = t.MontoGravado18
	c.MontoGravado16 = t.MontoGravado16
	c.MontoGravado0 = t.MontoGravado0
	c.MontoExento = t.MontoExento
	c.TotalITBIS18 = t.TotalITBIS18
	c.TotalITBIS16 = t.TotalITBIS16
	c.TotalITBISRetenido = t.TotalITBISRetenido
	c.TotalISRRetenido = t.TotalISRRetenido
	c.MontoTotal = t.MontoTotal
	return diags
}

// TotalITBIS suma de los ITBIS de ambos tramos gravados (para el RFCE).
func (t *Totales) TotalITBIS() decimal.Decimal {
	return t.TotalITBIS18.Add(t.TotalITBIS16)
}
