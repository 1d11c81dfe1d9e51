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

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación de ClienteRepository (usable con pool o tx).
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

const clienteColumns = `id, empresa_id, rnc, identificador_extranjero, razon_social, direccion, municipio, provincia, contacto, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *ClienteRepo) Create(c *entity.Cliente) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clientes (` + clienteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.EmpresaID, nullIfEmpty(c.RNC), nullIfEmpty(c.IdentificadorExtranjero),
		c.RazonSocial, nullIfEmpty(c.Direccion), nullIfEmpty(c.Municipio),
		nullIfEmpty(c.Provincia), nullIfEmpty(c.Contacto),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClienteRepo) GetByID(id string) (*entity.Cliente, error) {
	return r.getOne(`SELECT `+clienteColumns+` FROM clientes WHERE id = $1`, id)
}

// GetByEmpresaAndRNC obtiene el cliente de una empresa por su RNC.
func (r *ClienteRepo) GetByEmpresaAndRNC(empresaID, rnc string) (*entity.Cliente, error) {
	return r.getOne(`SELECT `+clienteColumns+` FROM clientes WHERE empresa_id = $1 AND rnc = $2`, empresaID, rnc)
}

func (r *ClienteRepo) getOne(query string, args ...any) (*entity.Cliente, error) {
	var c entity.Cliente
	var rnc, identExt, direccion, municipio, provincia, contacto *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&c.ID, &c.EmpresaID, &rnc, &identExt, &c.RazonSocial,
		&direccion, &municipio, &provincia, &contacto,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	c.RNC = derefStr(rnc)
	c.IdentificadorExtranjero = derefStr(identExt)
	c.Direccion = derefStr(direccion)
	c.Municipio = derefStr(municipio)
	c.Provincia = derefStr(provincia)
	c.Contacto = derefStr(contacto)
	return &c, nil
}

// ListByEmpresa devuelve los clientes de una empresa, paginados.
func (r *ClienteRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Cliente, error) {
	query := `SELECT ` + clienteColumns + ` FROM clientes WHERE empresa_id = $1 ORDER BY razon_social LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Cliente
	for rows.Next() {
		var c entity.Cliente
		var rnc, identExt, direccion, municipio, provincia, contacto *string
		if err := rows.Scan(
			&c.ID, &c.EmpresaID, &rnc, &identExt, &c.RazonSocial,
			&direccion, &municipio, &provincia, &contacto,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		c.RNC = derefStr(rnc)
		c.IdentificadorExtranjero = derefStr(identExt)
		c.Direccion = derefStr(direccion)
		c.Municipio = derefStr(municipio)
		c.Provincia = derefStr(provincia)
		c.Contacto = derefStr(contacto)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Update actualiza los datos del cliente.
func (r *ClienteRepo) Update(c *entity.Cliente) error {
	query := `
		UPDATE clientes
		SET rnc = $2, identificador_extranjero = $3, razon_social = $4,
		    direccion = $5, municipio = $6, provincia = $7, contacto = $8,
		    updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, nullIfEmpty(c.RNC), nullIfEmpty(c.IdentificadorExtranjero), c.RazonSocial,
		nullIfEmpty(c.Direccion), nullIfEmpty(c.Municipio), nullIfEmpty(c.Provincia),
		nullIfEmpty(c.Contacto), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *ClienteRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
