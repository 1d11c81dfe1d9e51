package repository

import "github.com/kenjidavila/ecf-rd/internal/domain/entity"

// ItemRepository define el puerto de persistencia para el catálogo de ítems.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByEmpresaAndCodigo(empresaID, codigo string) (*entity.Item, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Item, error)
	Update(item *entity.Item) error
	Delete(id string) error
}
