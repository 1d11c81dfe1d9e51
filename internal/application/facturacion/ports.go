package facturacion

import (
	"context"

	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
)

// DGIIConfig para los casos de uso de emisión (entorno y rutas de certificado).
type DGIIConfig struct {
	AppEnv       string // dev | test | cert | prod
	CertPath     string
	CertKeyPath  string
	CertPassword string
}

// TxRunner ejecuta una función dentro de una transacción que comparte los
// repos de secuencia y comprobante: la toma del secuencial y la inserción del
// comprobante deben ser atómicas para que un fallo devuelva el eNCF al rango.
type TxRunner interface {
	RunEmision(ctx context.Context, fn func(
		secRepo repository.SecuenciaRepository,
		compRepo repository.ComprobanteRepository,
	) error) error
}
