package facturacion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kenjidavila/ecf-rd/internal/application/dto"
	"github.com/kenjidavila/ecf-rd/internal/domain"
	"github.com/kenjidavila/ecf-rd/internal/domain/ecf"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
	infradgii "github.com/kenjidavila/ecf-rd/internal/infrastructure/dgii"
	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// Procesador dispara el ciclo DGII (XML, firma, envío) tras la emisión.
// La implementación real es DGIIOrchestrator; en tests se inyecta un stub.
type Procesador interface {
	ProcessAsync(comprobanteID string)
}

// EmitirComprobanteUseCase emite un e-CF: asigna el eNCF desde la secuencia
// activa y persiste cabecera y detalles en una sola transacción. El ciclo
// DGII (XML, firma, envío) corre después en goroutine; el cliente hace polling
// del estado.
type EmitirComprobanteUseCase struct {
	txRunner        TxRunner
	empresaRepo     repository.EmpresaRepository
	clienteRepo     repository.ClienteRepository
	itemRepo        repository.ItemRepository
	comprobanteRepo repository.ComprobanteRepository
	procesador      Procesador
}

// NewEmitirComprobanteUseCase construye el caso de uso. procesador puede ser
// nil: el comprobante queda en BORRADOR y no se dispara el ciclo DGII.
func NewEmitirComprobanteUseCase(
	txRunner TxRunner,
	empresaRepo repository.EmpresaRepository,
	clienteRepo repository.ClienteRepository,
	itemRepo repository.ItemRepository,
	comprobanteRepo repository.ComprobanteRepository,
	procesador Procesador,
) *EmitirComprobanteUseCase {
	return &EmitirComprobanteUseCase{
		txRunner:        txRunner,
		empresaRepo:     empresaRepo,
		clienteRepo:     clienteRepo,
		itemRepo:        itemRepo,
		comprobanteRepo: comprobanteRepo,
		procesador:      procesador,
	}
}

// Emitir valida la solicitud, toma el siguiente secuencial de la secuencia
// activa y guarda el comprobante en BORRADOR dentro de una transacción. Si hay
// procesador configurado, dispara el ciclo DGII asíncrono al confirmar la tx.
func (uc *EmitirComprobanteUseCase) Emitir(ctx context.Context, empresaID string, in dto.EmitirComprobanteRequest) (*dto.ComprobanteResponse, error) {
	if !pkgdgii.ValidTipoECF[in.TipoECF] {
		return nil, fmt.Errorf("%w: tipo de e-CF desconocido: %q", domain.ErrInvalidInput, in.TipoECF)
	}
	if len(in.Lineas) == 0 {
		return nil, fmt.Errorf("%w: el comprobante debe tener al menos una línea", domain.ErrInvalidInput)
	}

	empresa, err := uc.empresaRepo.GetByID(empresaID)
	if err != nil || empresa == nil {
		return nil, domain.ErrNotFound
	}

	// Comprador opcional; obligatorio para crédito fiscal (31) y notas (33/34).
	var cliente *entity.Cliente
	if in.ClienteID != "" {
		cliente, err = uc.clienteRepo.GetByID(in.ClienteID)
		if err != nil || cliente == nil {
			return nil, domain.ErrNotFound
		}
		if cliente.EmpresaID != empresaID {
			return nil, domain.ErrForbidden
		}
	} else if in.TipoECF == pkgdgii.TipoFacturaCreditoFiscal || in.TipoECF == pkgdgii.TipoNotaDebito || in.TipoECF == pkgdgii.TipoNotaCredito {
		return nil, fmt.Errorf("%w: el tipo %s requiere comprador identificado", domain.ErrInvalidInput, in.TipoECF)
	}

	detalles, err := uc.buildDetalles(empresaID, in.Lineas)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tipoIngresos := in.TipoIngresos
	if tipoIngresos == "" {
		tipoIngresos = pkgdgii.IngresoOperacional
	}

	c := &entity.Comprobante{
		ID:                 uuid.New().String(),
		EmpresaID:          empresaID,
		TipoECF:            in.TipoECF,
		FechaEmision:       now,
		TipoIngresos:       tipoIngresos,
		NCFModificado:      in.NCFModificado,
		FechaNCFModificado: in.FechaNCFModificado,
		CodigoModificacion: in.CodigoModificacion,
		TipoMoneda:         in.TipoMoneda,
		TipoCambio:         in.TipoCambio,
		Estado:             entity.ECFStatusBorrador,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if cliente != nil {
		c.ClienteID = cliente.ID
	}
	for i, d := range detalles {
		d.ComprobanteID = c.ID
		d.NumeroLinea = i + 1
	}

	diags := ecf.AplicarTotales(c, detalles)

	err = uc.txRunner.RunEmision(ctx, func(
		secRepo repository.SecuenciaRepository,
		compRepo repository.ComprobanteRepository,
	) error {
		sec, err := secRepo.GetActivaByEmpresaAndTipo(ctx, empresaID, in.TipoECF)
		if err != nil {
			return err
		}
		if sec == nil {
			return fmt.Errorf("%w: sin secuencia activa para el tipo %s", domain.ErrConflict, in.TipoECF)
		}
		if sec.Agotada() {
			return domain.ErrSecuenciaAgotada
		}
		if sec.Vencida(now) {
			return domain.ErrSecuenciaVencida
		}

		secuencial, err := secRepo.TomarSiguiente(ctx, sec.ID)
		if err != nil {
			return err
		}
		c.ENCF = entity.FormatENCF(in.TipoECF, secuencial)
		c.FechaVencimientoSecuencia = &sec.FechaVencimiento

		if err := ecf.ValidateComprobante(c, detalles, empresa); err != nil {
			return err
		}

		if err := compRepo.Create(c); err != nil {
			return err
		}
		for _, d := range detalles {
			if err := compRepo.CreateDetalle(d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.procesador != nil {
		uc.procesador.ProcessAsync(c.ID)
	}
	return toComprobanteResponse(c, diags), nil
}

// buildDetalles construye las líneas resolviendo ítems del catálogo. Si una
// línea trae ItemID, nombre, precio, tasa y unidad se completan desde el ítem
// cuando la línea no los sobreescribe.
func (uc *EmitirComprobanteUseCase) buildDetalles(empresaID string, lineas []dto.LineaRequest) ([]*entity.ComprobanteDetalle, error) {
	detalles := make([]*entity.ComprobanteDetalle, 0, len(lineas))
	for i, l := range lineas {
		d := &entity.ComprobanteDetalle{
			ID:                     uuid.New().String(),
			ItemID:                 l.ItemID,
			NumeroLinea:            i + 1,
			NombreItem:             l.NombreItem,
			IndicadorBienoServicio: pkgdgii.ItemBien,
			Cantidad:               l.Cantidad,
			UnidadMedida:           l.UnidadMedida,
			PrecioUnitario:         l.PrecioUnitario,
			Descuento:              l.Descuento,
			TasaITBIS:              l.TasaITBIS,
			ITBISRetenido:          l.ITBISRetenido,
			ISRRetenido:            l.ISRRetenido,
		}
		if l.ItemID != "" {
			item, err := uc.itemRepo.GetByID(l.ItemID)
			if err != nil || item == nil {
				return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, l.ItemID)
			}
			if item.EmpresaID != empresaID {
				return nil, domain.ErrForbidden
			}
			if d.NombreItem == "" {
				d.NombreItem = item.Nombre
			}
			if d.PrecioUnitario.IsZero() {
				d.PrecioUnitario = item.Precio
			}
			if d.TasaITBIS == "" {
				d.TasaITBIS = item.TasaITBIS
			}
			if d.UnidadMedida == "" {
				d.UnidadMedida = item.UnidadMedida
			}
			d.IndicadorBienoServicio = item.TipoItem
		}
		if d.UnidadMedida == "" {
			d.UnidadMedida = pkgdgii.UnidadUnidad
		}
		if l.ISC != nil {
			d.ISC = &entity.ImpuestoSelectivoConsumo{
				GradosAlcohol:            l.ISC.GradosAlcohol,
				CantidadReferencia:       l.ISC.CantidadReferencia,
				Subcantidad:              l.ISC.Subcantidad,
				PrecioUnitarioReferencia: l.ISC.PrecioUnitarioReferencia,
				MontoISCEspecifico:       l.ISC.MontoISCEspecifico,
				MontoISCAdvalorem:        l.ISC.MontoISCAdvalorem,
			}
		}
		if l.ImpuestoAdicional != nil {
			d.ImpuestoAdicional = &entity.ImpuestoAdicional{
				TipoImpuesto:  l.ImpuestoAdicional.TipoImpuesto,
				Tasa:          l.ImpuestoAdicional.Tasa,
				MontoImpuesto: l.ImpuestoAdicional.MontoImpuesto,
			}
		}
		detalles = append(detalles, d)
	}
	return detalles, nil
}

// GetComprobante obtiene un comprobante por ID, validando pertenencia.
func (uc *EmitirComprobanteUseCase) GetComprobante(ctx context.Context, empresaID, id string) (*dto.ComprobanteResponse, error) {
	c, err := uc.comprobanteRepo.GetByID(id)
	if err != nil || c == nil {
		return nil, domain.ErrNotFound
	}
	if c.EmpresaID != empresaID {
		return nil, domain.ErrForbidden
	}
	return toComprobanteResponse(c, nil), nil
}

// ListComprobantes lista comprobantes de la empresa con paginación.
func (uc *EmitirComprobanteUseCase) ListComprobantes(ctx context.Context, empresaID string, limit, offset int) (*dto.ComprobanteListResponse, error) {
	list, err := uc.comprobanteRepo.ListByEmpresa(empresaID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ComprobanteResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toComprobanteResponse(c, nil))
	}
	return &dto.ComprobanteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetEstado consulta ligera del estado DGII para polling del frontend.
func (uc *EmitirComprobanteUseCase) GetEstado(ctx context.Context, empresaID, id string) (*dto.ComprobanteEstadoDTO, error) {
	c, err := uc.comprobanteRepo.GetEstado(id)
	if err != nil || c == nil {
		return nil, domain.ErrNotFound
	}
	if c.EmpresaID != empresaID {
		return nil, domain.ErrForbidden
	}
	return &dto.ComprobanteEstadoDTO{
		ID:              c.ID,
		ENCF:            c.ENCF,
		Estado:          c.Estado,
		CodigoSeguridad: c.CodigoSeguridad,
		QRURL:           c.QRURL,
		TrackID:         c.TrackID,
		Errores:         c.DGIIErrores,
	}, nil
}

// GetXMLFirmado devuelve el XML firmado para descarga. Error si aún no hay
// firma (estado BORRADOR o ERROR_GENERACION previo a la firma).
func (uc *EmitirComprobanteUseCase) GetXMLFirmado(ctx context.Context, empresaID, id string) ([]byte, string, error) {
	c, err := uc.comprobanteRepo.GetByID(id)
	if err != nil || c == nil {
		return nil, "", domain.ErrNotFound
	}
	if c.EmpresaID != empresaID {
		return nil, "", domain.ErrForbidden
	}
	if c.XMLFirmado == "" {
		return nil, "", fmt.Errorf("%w: el comprobante %s aún no tiene XML firmado", domain.ErrConflict, c.ENCF)
	}
	empresa, err := uc.empresaRepo.GetByID(empresaID)
	if err != nil || empresa == nil {
		return nil, "", domain.ErrNotFound
	}
	return []byte(c.XMLFirmado), infradgii.ECFFilename(empresa.RNC, c.ENCF), nil
}

func toComprobanteResponse(c *entity.Comprobante, diags []ecf.TasaNoReconocida) *dto.ComprobanteResponse {
	resp := &dto.ComprobanteResponse{
		ID:              c.ID,
		EmpresaID:       c.EmpresaID,
		ClienteID:       c.ClienteID,
		TipoECF:         c.TipoECF,
		ENCF:            c.ENCF,
		FechaEmision:    c.FechaEmision.Format("2006-01-02"),
		MontoGravado18:  c.MontoGravado18,
		MontoGravado16:  c.MontoGravado16,
		MontoGravado0:   c.MontoGravado0,
		MontoExento:     c.MontoExento,
		TotalITBIS:      c.TotalITBIS18.Add(c.TotalITBIS16),
		MontoTotal:      c.MontoTotal,
		Estado:          c.Estado,
		CodigoSeguridad: c.CodigoSeguridad,
		QRURL:           c.QRURL,
	}
	for _, d := range diags {
		resp.TasasNoReconocidas = append(resp.TasasNoReconocidas, dto.TasaNoReconocidaDTO{
			NumeroLinea: d.NumeroLinea,
			Tasa:        d.Tasa,
			Monto:       d.Monto,
		})
	}
	return resp
}
