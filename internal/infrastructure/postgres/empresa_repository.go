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

var _ repository.EmpresaRepository = (*EmpresaRepo)(nil)

// EmpresaRepo implementación de EmpresaRepository sobre PostgreSQL.
type EmpresaRepo struct {
	q Querier
}

// NewEmpresaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmpresaRepository(q Querier) *EmpresaRepo {
	return &EmpresaRepo{q: q}
}

const empresaColumns = `id, rnc, razon_social, nombre_comercial, direccion, municipio, provincia, telefono, email, status, created_at, updated_at`

// Create persiste una nueva empresa emisora.
func (r *EmpresaRepo) Create(e *entity.Empresa) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO empresas (` + empresaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.RNC, e.RazonSocial, nullIfEmpty(e.NombreComercial),
		e.Direccion, e.Municipio, e.Provincia,
		nullIfEmpty(e.Telefono), nullIfEmpty(e.Email), e.Status,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *EmpresaRepo) GetByID(id string) (*entity.Empresa, error) {
	return r.getOne(`SELECT `+empresaColumns+` FROM empresas WHERE id = $1`, id)
}

// GetByRNC obtiene una empresa por su RNC.
func (r *EmpresaRepo) GetByRNC(rnc string) (*entity.Empresa, error) {
	return r.getOne(`SELECT `+empresaColumns+` FROM empresas WHERE rnc = $1`, rnc)
}

func (r *EmpresaRepo) getOne(query string, arg any) (*entity.Empresa, error) {
	var e entity.Empresa
	var nombreComercial, telefono, email *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&e.ID, &e.RNC, &e.RazonSocial, &nombreComercial,
		&e.Direccion, &e.Municipio, &e.Provincia,
		&telefono, &email, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa: %w", err)
	}
	e.NombreComercial = derefStr(nombreComercial)
	e.Telefono = derefStr(telefono)
	e.Email = derefStr(email)
	return &e, nil
}

// List devuelve empresas paginadas.
func (r *EmpresaRepo) List(limit, offset int) ([]*entity.Empresa, error) {
	query := `SELECT ` + empresaColumns + ` FROM empresas ORDER BY razon_social LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list empresas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Empresa
	for rows.Next() {
		var e entity.Empresa
		var nombreComercial, telefono, email *string
		if err := rows.Scan(
			&e.ID, &e.RNC, &e.RazonSocial, &nombreComercial,
			&e.Direccion, &e.Municipio, &e.Provincia,
			&telefono, &email, &e.Status, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan empresa: %w", err)
		}
		e.NombreComercial = derefStr(nombreComercial)
		e.Telefono = derefStr(telefono)
		e.Email = derefStr(email)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Update actualiza los datos mutables de la empresa.
func (r *EmpresaRepo) Update(e *entity.Empresa) error {
	query := `
		UPDATE empresas
		SET razon_social = $2, nombre_comercial = $3, direccion = $4,
		    municipio = $5, provincia = $6, telefono = $7, email = $8,
		    status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		e.ID, e.RazonSocial, nullIfEmpty(e.NombreComercial), e.Direccion,
		e.Municipio, e.Provincia, nullIfEmpty(e.Telefono), nullIfEmpty(e.Email),
		e.Status, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update empresa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
