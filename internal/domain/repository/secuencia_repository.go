package repository

import (
	"context"

	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
)

// SecuenciaRepository define el puerto de persistencia para rangos de eNCF.
type SecuenciaRepository interface {
	Create(ctx context.Context, s *entity.Secuencia) error
	GetByID(ctx context.Context, id string) (*entity.Secuencia, error)

	// GetActivaByEmpresaAndTipo devuelve la secuencia activa para la empresa y
	// tipo de e-CF dados. Es la consulta crítica antes de emitir: sin secuencia
	// activa no hay eNCF y el comprobante no puede generarse.
	GetActivaByEmpresaAndTipo(ctx context.Context, empresaID, tipoECF string) (*entity.Secuencia, error)

	// TomarSiguiente incrementa Proximo con bloqueo de fila y devuelve el
	// secuencial asignado. Debe ejecutarse dentro de la transacción de emisión
	// para que dos comprobantes nunca compartan eNCF.
	TomarSiguiente(ctx context.Context, id string) (int64, error)

	ListByEmpresa(ctx context.Context, empresaID string) ([]*entity.Secuencia, error)
	Update(ctx context.Context, s *entity.Secuencia) error
}
