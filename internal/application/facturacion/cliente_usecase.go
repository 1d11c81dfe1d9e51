package facturacion

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

// ClienteUseCase casos de uso para clientes (receptores de e-CF).
type ClienteUseCase struct {
	repo repository.ClienteRepository
}

// NewClienteUseCase construye el caso de uso.
func NewClienteUseCase(repo repository.ClienteRepository) *ClienteUseCase {
	return &ClienteUseCase{repo: repo}
}

// Create crea un nuevo cliente. RNC e IdentificadorExtranjero son mutuamente
// excluyentes; si viene RNC se valida como RNC o cédula.
func (uc *ClienteUseCase) Create(empresaID string, in dto.CreateClienteRequest) (*dto.ClienteResponse, error) {
	if in.RazonSocial == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.RNC == "" && in.IdentificadorExtranjero == "" {
		return nil, fmt.Errorf("%w: se requiere RNC o identificador extranjero", domain.ErrInvalidInput)
	}
	if in.RNC != "" && in.IdentificadorExtranjero != "" {
		return nil, fmt.Errorf("%w: RNC e identificador extranjero son excluyentes", domain.ErrInvalidInput)
	}
	if in.RNC != "" {
		if err := pkgdgii.ValidateDocumentoIdentidad(in.RNC); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		existing, _ := uc.repo.GetByEmpresaAndRNC(empresaID, in.RNC)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	cliente := &entity.Cliente{
		ID:                      uuid.New().String(),
		EmpresaID:               empresaID,
		RNC:                     in.RNC,
		IdentificadorExtranjero: in.IdentificadorExtranjero,
		RazonSocial:             in.RazonSocial,
		Direccion:               in.Direccion,
		Municipio:               in.Municipio,
		Provincia:               in.Provincia,
		Contacto:                in.Contacto,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := uc.repo.Create(cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

// GetByID obtiene un cliente validando pertenencia a la empresa.
func (uc *ClienteUseCase) GetByID(empresaID, id string) (*dto.ClienteResponse, error) {
	cliente, err := uc.repo.GetByID(id)
	if err != nil || cliente == nil {
		return nil, domain.ErrNotFound
	}
	if cliente.EmpresaID != empresaID {
		return nil, domain.ErrForbidden
	}
	return toClienteResponse(cliente), nil
}

// List lista clientes de la empresa con paginación.
func (uc *ClienteUseCase) List(empresaID string, limit, offset int) (*dto.ClienteListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByEmpresa(empresaID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClienteResponse(c))
	}
	return &dto.ClienteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un cliente validando pertenencia.
func (uc *ClienteUseCase) Delete(empresaID, id string) error {
	cliente, err := uc.repo.GetByID(id)
	if err != nil || cliente == nil {
		return domain.ErrNotFound
	}
	if cliente.EmpresaID != empresaID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toClienteResponse(c *entity.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:                      c.ID,
		EmpresaID:               c.EmpresaID,
		RNC:                     c.RNC,
		IdentificadorExtranjero: c.IdentificadorExtranjero,
		RazonSocial:             c.RazonSocial,
		Direccion:               c.Direccion,
		Municipio:               c.Municipio,
		Provincia:               c.Provincia,
		Contacto:                c.Contacto,
	}
}
