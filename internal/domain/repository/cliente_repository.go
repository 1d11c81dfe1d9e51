package repository

import "github.com/kenjidavila/ecf-rd/internal/domain/entity"

// ClienteRepository define el puerto de persistencia para Cliente (receptores de e-CF).
type ClienteRepository interface {
	Create(cliente *entity.Cliente) error
	GetByID(id string) (*entity.Cliente, error)
	GetByEmpresaAndRNC(empresaID, rnc string) (*entity.Cliente, error)
	ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Cliente, error)
	Update(cliente *entity.Cliente) error
	Delete(id string) error
}
