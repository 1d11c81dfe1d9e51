// Package dgii implementa la generación del XML e-CF según los esquemas
// publicados por la DGII (República Dominicana), la URL de consulta de timbre
// para el QR y la entrega del documento firmado al web service de recepción.
package dgii

import (
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
)

// ComprobanteBuildContext contexto con todos los datos necesarios para
// construir el XML del comprobante. Los totales del Comprobante deben venir
// ya calculados (ecf.AplicarTotales) antes de generar.
type ComprobanteBuildContext struct {
	Comprobante *entity.Comprobante
	Emisor      *entity.Empresa
	Comprador   *entity.Cliente // nil = el bloque Comprador se omite completo
	Detalles    []*entity.ComprobanteDetalle
}
