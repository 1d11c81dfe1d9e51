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

// EmpresaUseCase aplica reglas de negocio para empresas emisoras (casos de uso).
type EmpresaUseCase struct {
	repo repository.EmpresaRepository
}

// NewEmpresaUseCase construye el caso de uso con el puerto de persistencia.
func NewEmpresaUseCase(repo repository.EmpresaRepository) *EmpresaUseCase {
	return &EmpresaUseCase{repo: repo}
}

// Create crea una nueva empresa emisora. Valida el RNC (dígito verificador)
// y devuelve domain.ErrDuplicate si el RNC ya existe.
func (uc *EmpresaUseCase) Create(in dto.CreateEmpresaRequest) (*dto.EmpresaResponse, error) {
	if err := pkgdgii.ValidateRNC(in.RNC); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	existing, _ := uc.repo.GetByRNC(in.RNC)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	empresa := &entity.Empresa{
		ID:              uuid.New().String(),
		RNC:             in.RNC,
		RazonSocial:     in.RazonSocial,
		NombreComercial: in.NombreComercial,
		Direccion:       in.Direccion,
		Municipio:       in.Municipio,
		Provincia:       in.Provincia,
		Telefono:        in.Telefono,
		Email:           in.Email,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(empresa); err != nil {
		return nil, err
	}
	return toEmpresaResponse(empresa), nil
}

// GetByID obtiene una empresa por ID.
func (uc *EmpresaUseCase) GetByID(id string) (*dto.EmpresaResponse, error) {
	empresa, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, nil
	}
	return toEmpresaResponse(empresa), nil
}

// List lista empresas con paginación.
func (uc *EmpresaUseCase) List(limit, offset int) (*dto.EmpresaListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmpresaResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEmpresaResponse(e))
	}
	return &dto.EmpresaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toEmpresaResponse(e *entity.Empresa) *dto.EmpresaResponse {
	if e == nil {
		return nil
	}
	return &dto.EmpresaResponse{
		ID:              e.ID,
		RNC:             e.RNC,
		RazonSocial:     e.RazonSocial,
		NombreComercial: e.NombreComercial,
		Direccion:       e.Direccion,
		Municipio:       e.Municipio,
		Provincia:       e.Provincia,
		Telefono:        e.Telefono,
		Email:           e.Email,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
