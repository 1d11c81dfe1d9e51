package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
)

// Ensure TxRunner implements facturacion.TxRunner.
var _ facturacion.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunEmision inicia la transacción de emisión: la toma del secuencial y la
// inserción del comprobante comparten tx para que un fallo en cualquiera
// devuelva el eNCF al rango. Commit o Rollback según el resultado de fn.
func (r *TxRunner) RunEmision(ctx context.Context, fn func(
	secRepo repository.SecuenciaRepository,
	compRepo repository.ComprobanteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	secRepo := NewSecuenciaRepository(tx)
	compRepo := NewComprobanteRepository(tx)

	if err := fn(secRepo, compRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
