package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kenjidavila/ecf-rd/internal/domain"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
)

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

// ComprobanteRepo implementación de ComprobanteRepository (usable con pool o tx).
type ComprobanteRepo struct {
	q Querier
}

// NewComprobanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComprobanteRepository(q Querier) *ComprobanteRepo {
	return &ComprobanteRepo{q: q}
}

const comprobanteColumns = `id, empresa_id, cliente_id, tipo_ecf, encf, fecha_emision,
	fecha_vencimiento_secuencia, tipo_ingresos, ncf_modificado, fecha_ncf_modificado,
	codigo_modificacion, tipo_moneda, tipo_cambio,
	monto_gravado_18, monto_gravado_16, monto_gravado_0, monto_exento,
	total_itbis_18, total_itbis_16, total_itbis_retenido, total_isr_retenido, monto_total,
	codigo_seguridad, fecha_firma, estado, xml_firmado, qr_url, track_id, dgii_errores,
	created_at, updated_at`

// Create persiste la cabecera del comprobante con sus totales ya calculados.
func (r *ComprobanteRepo) Create(c *entity.Comprobante) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO comprobantes (` + comprobanteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.EmpresaID, nullIfEmpty(c.ClienteID), c.TipoECF, c.ENCF, c.FechaEmision,
		c.FechaVencimientoSecuencia, c.TipoIngresos, nullIfEmpty(c.NCFModificado), c.FechaNCFModificado,
		nullIfEmpty(c.CodigoModificacion), nullIfEmpty(c.TipoMoneda), c.TipoCambio,
		c.MontoGravado18, c.MontoGravado16, c.MontoGravado0, c.MontoExento,
		c.TotalITBIS18, c.TotalITBIS16, c.TotalITBISRetenido, c.TotalISRRetenido, c.MontoTotal,
		nullIfEmpty(c.CodigoSeguridad), c.FechaFirma, c.Estado, nullIfEmpty(c.XMLFirmado),
		nullIfEmpty(c.QRURL), nullIfEmpty(c.TrackID), nullIfEmpty(c.DGIIErrores),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("eNCF ya emitido: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert comprobante: %w", err)
	}
	return nil
}

const detalleColumns = `id, comprobante_id, item_id, numero_linea, nombre_item,
	indicador_bien_servicio, cantidad, unidad_medida, precio_unitario, descuento,
	tasa_itbis, itbis_retenido, isr_retenido,
	isc_grados_alcohol, isc_cantidad_referencia, isc_subcantidad,
	isc_precio_referencia, isc_monto_especifico, isc_monto_advalorem,
	imp_adicional_tipo, imp_adicional_tasa, imp_adicional_monto`

// CreateDetalle persiste una línea del comprobante. Los sub-bloques ISC e
// impuesto adicional van en columnas anulables: NULL marca bloque ausente.
func (r *ComprobanteRepo) CreateDetalle(d *entity.ComprobanteDetalle) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}

	var iscGrados, iscCantRef, iscSubcant, iscPrecioRef, iscEspecifico, iscAdvalorem decimal.NullDecimal
	if isc := d.ISC; isc != nil {
		iscGrados = decimal.NullDecimal{Decimal: isc.GradosAlcohol, Valid: true}
		iscCantRef = decimal.NullDecimal{Decimal: isc.CantidadReferencia, Valid: true}
		iscSubcant = decimal.NullDecimal{Decimal: isc.Subcantidad, Valid: true}
		iscPrecioRef = decimal.NullDecimal{Decimal: isc.PrecioUnitarioReferencia, Valid: true}
		iscEspecifico = decimal.NullDecimal{Decimal: isc.MontoISCEspecifico, Valid: true}
		iscAdvalorem = decimal.NullDecimal{Decimal: isc.MontoISCAdvalorem, Valid: true}
	}
	var impTipo *string
	var impTasa, impMonto decimal.NullDecimal
	if imp := d.ImpuestoAdicional; imp != nil {
		impTipo = &imp.TipoImpuesto
		impTasa = decimal.NullDecimal{Decimal: imp.Tasa, Valid: true}
		impMonto = decimal.NullDecimal{Decimal: imp.MontoImpuesto, Valid: true}
	}

	query := `
		INSERT INTO comprobante_detalles (` + detalleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ComprobanteID, nullIfEmpty(d.ItemID), d.NumeroLinea, d.NombreItem,
		d.IndicadorBienoServicio, d.Cantidad, d.UnidadMedida, d.PrecioUnitario, d.Descuento,
		d.TasaITBIS, d.ITBISRetenido, d.ISRRetenido,
		iscGrados, iscCantRef, iscSubcant, iscPrecioRef, iscEspecifico, iscAdvalorem,
		impTipo, impTasa, impMonto,
	)
	if err != nil {
		return fmt.Errorf("insert detalle: %w", err)
	}
	return nil
}

// Update actualiza los campos del ciclo DGII del comprobante.
func (r *ComprobanteRepo) Update(c *entity.Comprobante) error {
	query := `
		UPDATE comprobantes
		SET estado           = $2,
		    codigo_seguridad = COALESCE($3, codigo_seguridad),
		    fecha_firma      = COALESCE($4, fecha_firma),
		    xml_firmado      = COALESCE($5, xml_firmado),
		    qr_url           = COALESCE($6, qr_url),
		    track_id         = COALESCE($7, track_id),
		    dgii_errores     = COALESCE($8, dgii_errores),
		    updated_at       = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Estado,
		nullIfEmpty(c.CodigoSeguridad), c.FechaFirma, nullIfEmpty(c.XMLFirmado),
		nullIfEmpty(c.QRURL), nullIfEmpty(c.TrackID), nullIfEmpty(c.DGIIErrores),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update comprobante: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un comprobante completo por ID.
func (r *ComprobanteRepo) GetByID(id string) (*entity.Comprobante, error) {
	return r.getOne(`SELECT `+comprobanteColumns+` FROM comprobantes WHERE id = $1`, id)
}

// GetByENCF obtiene el comprobante de una empresa por su eNCF.
func (r *ComprobanteRepo) GetByENCF(empresaID, encf string) (*entity.Comprobante, error) {
	return r.getOne(`SELECT `+comprobanteColumns+` FROM comprobantes WHERE empresa_id = $1 AND encf = $2`, empresaID, encf)
}

func (r *ComprobanteRepo) getOne(query string, args ...any) (*entity.Comprobante, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	c, err := scanComprobante(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante: %w", err)
	}
	return c, nil
}

func scanComprobante(row pgx.Row) (*entity.Comprobante, error) {
	var c entity.Comprobante
	var clienteID, ncfMod, codMod, tipoMoneda, codSeg, xmlFirmado, qrURL, trackID, dgiiErrores *string
	err := row.Scan(
		&c.ID, &c.EmpresaID, &clienteID, &c.TipoECF, &c.ENCF, &c.FechaEmision,
		&c.FechaVencimientoSecuencia, &c.TipoIngresos, &ncfMod, &c.FechaNCFModificado,
		&codMod, &tipoMoneda, &c.TipoCambio,
		&c.MontoGravado18, &c.MontoGravado16, &c.MontoGravado0, &c.MontoExento,
		&c.TotalITBIS18, &c.TotalITBIS16, &c.TotalITBISRetenido, &c.TotalISRRetenido, &c.MontoTotal,
		&codSeg, &c.FechaFirma, &c.Estado, &xmlFirmado, &qrURL, &trackID, &dgiiErrores,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ClienteID = derefStr(clienteID)
	c.NCFModificado = derefStr(ncfMod)
	c.CodigoModificacion = derefStr(codMod)
	c.TipoMoneda = derefStr(tipoMoneda)
	c.CodigoSeguridad = derefStr(codSeg)
	c.XMLFirmado = derefStr(xmlFirmado)
	c.QRURL = derefStr(qrURL)
	c.TrackID = derefStr(trackID)
	c.DGIIErrores = derefStr(dgiiErrores)
	return &c, nil
}

// GetDetallesByComprobanteID devuelve las líneas en orden de numero_linea.
func (r *ComprobanteRepo) GetDetallesByComprobanteID(comprobanteID string) ([]*entity.ComprobanteDetalle, error) {
	query := `SELECT ` + detalleColumns + ` FROM comprobante_detalles WHERE comprobante_id = $1 ORDER BY numero_linea`
	rows, err := r.q.Query(context.Background(), query, comprobanteID)
	if err != nil {
		return nil, fmt.Errorf("get detalles: %w", err)
	}
	defer rows.Close()

	var out []*entity.ComprobanteDetalle
	for rows.Next() {
		var d entity.ComprobanteDetalle
		var itemID, impTipo *string
		var iscGrados, iscCantRef, iscSubcant, iscPrecioRef, iscEspecifico, iscAdvalorem decimal.NullDecimal
		var impTasa, impMonto decimal.NullDecimal
		if err := rows.Scan(
			&d.ID, &d.ComprobanteID, &itemID, &d.NumeroLinea, &d.NombreItem,
			&d.IndicadorBienoServicio, &d.Cantidad, &d.UnidadMedida, &d.PrecioUnitario, &d.Descuento,
			&d.TasaITBIS, &d.ITBISRetenido, &d.ISRRetenido,
			&iscGrados, &iscCantRef, &iscSubcant, &iscPrecioRef, &iscEspecifico, &iscAdvalorem,
			&impTipo, &impTasa, &impMonto,
		); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		d.ItemID = derefStr(itemID)
		if iscGrados.Valid {
			d.ISC = &entity.ImpuestoSelectivoConsumo{
				GradosAlcohol:            iscGrados.Decimal,
				CantidadReferencia:       iscCantRef.Decimal,
				Subcantidad:              iscSubcant.Decimal,
				PrecioUnitarioReferencia: iscPrecioRef.Decimal,
				MontoISCEspecifico:       iscEspecifico.Decimal,
				MontoISCAdvalorem:        iscAdvalorem.Decimal,
			}
		}
		if impTipo != nil {
			d.ImpuestoAdicional = &entity.ImpuestoAdicional{
				TipoImpuesto:  *impTipo,
				Tasa:          impTasa.Decimal,
				MontoImpuesto: impMonto.Decimal,
			}
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// ListByEmpresa devuelve los comprobantes de una empresa, más recientes primero.
func (r *ComprobanteRepo) ListByEmpresa(empresaID string, limit, offset int) ([]*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteColumns + `
		FROM comprobantes WHERE empresa_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, empresaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Comprobante
	for rows.Next() {
		c, err := scanComprobante(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comprobante: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetEstado devuelve solo los campos de estado DGII (consulta ligera para polling).
func (r *ComprobanteRepo) GetEstado(id string) (*entity.Comprobante, error) {
	query := `
		SELECT id, encf, estado, codigo_seguridad, qr_url, track_id, dgii_errores
		FROM comprobantes WHERE id = $1`
	var c entity.Comprobante
	var codSeg, qrURL, trackID, dgiiErrores *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.ENCF, &c.Estado, &codSeg, &qrURL, &trackID, &dgiiErrores,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estado comprobante: %w", err)
	}
	c.CodigoSeguridad = derefStr(codSeg)
	c.QRURL = derefStr(qrURL)
	c.TrackID = derefStr(trackID)
	c.DGIIErrores = derefStr(dgiiErrores)
	return &c, nil
}
