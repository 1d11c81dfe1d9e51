package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kenjidavila/ecf-rd/internal/domain"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
)

var _ repository.SecuenciaRepository = (*SecuenciaRepo)(nil)

// SecuenciaRepo implementación de SecuenciaRepository (usable con pool o tx).
type SecuenciaRepo struct {
	q Querier
}

// NewSecuenciaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSecuenciaRepository(q Querier) *SecuenciaRepo {
	return &SecuenciaRepo{q: q}
}

const secuenciaColumns = `id, empresa_id, tipo_ecf, desde, hasta, proximo, fecha_vencimiento, activa, created_at, updated_at`

// Create persiste un rango de eNCF autorizado.
func (r *SecuenciaRepo) Create(ctx context.Context, s *entity.Secuencia) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO secuencias (` + secuenciaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.EmpresaID, s.TipoECF, s.Desde, s.Hasta, s.Proximo,
		s.FechaVencimiento, s.Activa, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert secuencia: %w", err)
	}
	return nil
}

// GetByID obtiene una secuencia por ID.
func (r *SecuenciaRepo) GetByID(ctx context.Context, id string) (*entity.Secuencia, error) {
	return r.getOne(ctx, `SELECT `+secuenciaColumns+` FROM secuencias WHERE id = $1`, id)
}

// GetActivaByEmpresaAndTipo devuelve la secuencia activa de la empresa para
// el tipo de e-CF. Sin secuencia activa no hay eNCF que asignar.
func (r *SecuenciaRepo) GetActivaByEmpresaAndTipo(ctx context.Context, empresaID, tipoECF string) (*entity.Secuencia, error) {
	query := `SELECT ` + secuenciaColumns + `
		FROM secuencias
		WHERE empresa_id = $1 AND tipo_ecf = $2 AND activa = true
		ORDER BY created_at DESC LIMIT 1`
	return r.getOne(ctx, query, empresaID, tipoECF)
}

func (r *SecuenciaRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Secuencia, error) {
	var s entity.Secuencia
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.EmpresaID, &s.TipoECF, &s.Desde, &s.Hasta, &s.Proximo,
		&s.FechaVencimiento, &s.Activa, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get secuencia: %w", err)
	}
	return &s, nil
}

// TomarSiguiente asigna el siguiente secuencial del rango con bloqueo de
// fila: el UPDATE atómico garantiza que dos emisiones concurrentes nunca
// compartan eNCF. Debe ejecutarse dentro de la transacción de emisión.
func (r *SecuenciaRepo) TomarSiguiente(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE secuencias
		SET proximo = proximo + 1, updated_at = now()
		WHERE id = $1 AND activa = true AND proximo <= hasta
		RETURNING proximo - 1`
	var secuencial int64
	err := r.q.QueryRow(ctx, query, id).Scan(&secuencial)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSecuenciaAgotada
		}
		return 0, fmt.Errorf("tomar siguiente secuencial: %w", err)
	}
	return secuencial, nil
}

// ListByEmpresa devuelve todas las secuencias de una empresa.
func (r *SecuenciaRepo) ListByEmpresa(ctx context.Context, empresaID string) ([]*entity.Secuencia, error) {
	query := `SELECT ` + secuenciaColumns + ` FROM secuencias WHERE empresa_id = $1 ORDER BY tipo_ecf, created_at`
	rows, err := r.q.Query(ctx, query, empresaID)
	if err != nil {
		return nil, fmt.Errorf("list secuencias: %w", err)
	}
	defer rows.Close()

	var out []*entity.Secuencia
	for rows.Next() {
		var s entity.Secuencia
		if err := rows.Scan(
			&s.ID, &s.EmpresaID, &s.TipoECF, &s.Desde, &s.Hasta, &s.Proximo,
			&s.FechaVencimiento, &s.Activa, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan secuencia: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Update actualiza vencimiento y bandera de activación.
func (r *SecuenciaRepo) Update(ctx context.Context, s *entity.Secuencia) error {
	query := `
		UPDATE secuencias
		SET fecha_vencimiento = $2, activa = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.FechaVencimiento, s.Activa, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update secuencia: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
