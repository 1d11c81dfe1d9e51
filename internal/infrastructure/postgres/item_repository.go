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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, empresa_id, codigo, nombre, descripcion, tipo_item, precio, tasa_itbis, unidad_medida, created_at, updated_at`

// Create persiste un nuevo ítem del catálogo.
func (r *ItemRepo) Create(it *entity.Item) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.EmpresaID, it.Codigo, it.Nombre, nullIfEmpty(it.Descripcion),
		it.TipoItem, it.Precio, it.TasaITBIS, it.UnidadMedida,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByEmpresaAndCodigo obtiene el ítem de una empresa por su código.
func (r *ItemRepo) GetByEmpresaAndCodigo(empresaID, codigo string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE empresa_id = $1 AND codigo = $2`, empresaID, codigo)
}

func (r *ItemRepo) getOne(query string, args ...any) (*entity.Item, error) {
	var it entity.Item
	var descripcion *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&it.ID, &it.EmpresaID, &it.Codigo, &it.Nombre, &descripcion,
		&it.TipoItem, &it.Precio, &it.TasaITBIS, &it.UnidadMedida,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	it.Descripcion = derefStr(descripcion)
	return &it, nil
}

// ListByEmpresa devuelve el catálogo de una empresa, paginado.
func (r *ItemRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE empresa_id = $1 ORDER BY codigo LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []*entity.Item
	for rows.Next() {
		var it entity.Item
		var descripcion *string
		if err := rows.Scan(
			&it.ID, &it.EmpresaID, &it.Codigo, &it.Nombre, &descripcion,
			&it.TipoItem, &it.Precio, &it.TasaITBIS, &it.UnidadMedida,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Descripcion = derefStr(descripcion)
		out = append(out, &it)
	}
	return out, rows.Err()
}

// Update actualiza los datos del ítem.
func (r *ItemRepo) Update(it *entity.Item) error {
	query := `
		UPDATE items
		SET nombre = $2, descripcion = $3, tipo_item = $4, precio = $5,
		    tasa_itbis = $6, unidad_medida = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		it.ID, it.Nombre, nullIfEmpty(it.Descripcion), it.TipoItem, it.Precio,
		it.TasaITBIS, it.UnidadMedida, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
