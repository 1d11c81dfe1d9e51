package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/domain"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// ItemUseCase casos de uso CRUD para el catálogo de ítems facturables.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un nuevo ítem. La tasa debe ser una de las cuatro etiquetas
// canónicas; la unidad por defecto es 43 (unidad).
func (uc *ItemUseCase) Create(empresaID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.repo.GetByEmpresaAndCodigo(empresaID, in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if !pkgdgii.ValidTasaITBIS[in.TasaITBIS] {
		return nil, fmt.Errorf("%w: tasa ITBIS desconocida: %q", domain.ErrInvalidInput, in.TasaITBIS)
	}
	if in.TipoItem != pkgdgii.ItemBien && in.TipoItem != pkgdgii.ItemServicio {
		return nil, fmt.Errorf("%w: tipo de ítem debe ser 1 (bien) o 2 (servicio)", domain.ErrInvalidInput)
	}
	if in.Precio.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnidadMedida == "" {
		in.UnidadMedida = pkgdgii.UnidadUnidad
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		EmpresaID:    empresaID,
		Codigo:       in.Codigo,
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		TipoItem:     in.TipoItem,
		Precio:       in.Precio,
		TasaITBIS:    in.TasaITBIS,
		UnidadMedida: in.UnidadMedida,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem validando pertenencia a la empresa.
func (uc *ItemUseCase) GetByID(empresaID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.EmpresaID != empresaID {
		return nil, domain.ErrForbidden
	}
	return toItemResponse(item), nil
}

// List lista ítems por empresa con paginación.
func (uc *ItemUseCase) List(empresaID string, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.ListByEmpresa(empresaID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un ítem validando pertenencia.
func (uc *ItemUseCase) Delete(empresaID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return domain.ErrNotFound
	}
	if item.EmpresaID != empresaID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           it.ID,
		EmpresaID:    it.EmpresaID,
		Codigo:       it.Codigo,
		Nombre:       it.Nombre,
		Descripcion:  it.Descripcion,
		TipoItem:     it.TipoItem,
		Precio:       it.Precio,
		TasaITBIS:    it.TasaITBIS,
		UnidadMedida: it.UnidadMedida,
	}
}
