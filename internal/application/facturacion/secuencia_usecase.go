package facturacion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/domain"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// SecuenciaUseCase administra los rangos de eNCF autorizados por la DGII.
type SecuenciaUseCase struct {
	repo repository.SecuenciaRepository
}

// NewSecuenciaUseCase construye el caso de uso.
func NewSecuenciaUseCase(repo repository.SecuenciaRepository) *SecuenciaUseCase {
	return &SecuenciaUseCase{repo: repo}
}

// Create registra un rango autorizado y lo activa. Si ya había una secuencia
// activa para el mismo tipo, la desactiva: solo una activa por tipo.
func (uc *SecuenciaUseCase) Create(ctx context.Context, empresaID string, in dto.CreateSecuenciaRequest) (*dto.SecuenciaResponse, error) {
	if !pkgdgii.ValidTipoECF[in.TipoECF] {
		return nil, fmt.Errorf("%w: tipo de e-CF desconocido: %q", domain.ErrInvalidInput, in.TipoECF)
	}
	if in.Desde <= 0 || in.Hasta < in.Desde {
		return nil, fmt.Errorf("%w: rango inválido [%d, %d]", domain.ErrInvalidInput, in.Desde, in.Hasta)
	}
	if !in.FechaVencimiento.After(time.Now()) {
		return nil, fmt.Errorf("%w: la fecha de vencimiento ya pasó", domain.ErrInvalidInput)
	}

	anterior, err := uc.repo.GetActivaByEmpresaAndTipo(ctx, empresaID, in.TipoECF)
	if err != nil {
		return nil, err
	}
	if anterior != nil {
		anterior.Activa = false
		anterior.UpdatedAt = time.Now()
		if err := uc.repo.Update(ctx, anterior); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	sec := &entity.Secuencia{
		ID:               uuid.New().String(),
		EmpresaID:        empresaID,
		TipoECF:          in.TipoECF,
		Desde:            in.Desde,
		Hasta:            in.Hasta,
		Proximo:          in.Desde,
		FechaVencimiento: in.FechaVencimiento,
		Activa:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, sec); err != nil {
		return nil, err
	}
	return toSecuenciaResponse(sec), nil
}

// List lista las secuencias de la empresa (activas e inactivas).
func (uc *SecuenciaUseCase) List(ctx context.Context, empresaID string) (*dto.SecuenciaListResponse, error) {
	list, err := uc.repo.ListByEmpresa(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SecuenciaResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSecuenciaResponse(s))
	}
	return &dto.SecuenciaListResponse{Items: items}, nil
}

// Desactivar marca una secuencia como inactiva validando pertenencia.
func (uc *SecuenciaUseCase) Desactivar(ctx context.Context, empresaID, id string) error {
	sec, err := uc.repo.GetByID(ctx, id)
	if err != nil || sec == nil {
		return domain.ErrNotFound
	}
	if sec.EmpresaID != empresaID {
		return domain.ErrForbidden
	}
	sec.Activa = false
	sec.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, sec)
}

func toSecuenciaResponse(s *entity.Secuencia) *dto.SecuenciaResponse {
	disponibles := s.Hasta - s.Proximo + 1
	if disponibles < 0 {
		disponibles = 0
	}
	return &dto.SecuenciaResponse{
		ID:               s.ID,
		EmpresaID:        s.EmpresaID,
		TipoECF:          s.TipoECF,
		Desde:            s.Desde,
		Hasta:            s.Hasta,
		Proximo:          s.Proximo,
		Disponibles:      disponibles,
		FechaVencimiento: s.FechaVencimiento,
		Activa:           s.Activa,
	}
}
