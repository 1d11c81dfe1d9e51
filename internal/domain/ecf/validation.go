package ecf

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/pkg/dgii"
)

// ErrComprobanteInvalido agrupa errores de validación de comprobante.
var ErrComprobanteInvalido = errors.New("comprobante inválido para DGII")

// encfPattern eNCF electrónico: E + tipo (2 dígitos) + secuencial (10 dígitos).
var encfPattern = regexp.MustCompile(`^E(3[1-4]|4[13-7])[0-9]{10}$`)

// ValidateENCF valida el formato del eNCF y que su tipo embebido coincida con
// el TipoeCF declarado.
func ValidateENCF(encf, tipoECF string) error {
	if !encfPattern.MatchString(encf) {
		return fmt.Errorf("%w: eNCF %q no cumple el formato E+tipo+10 dígitos", ErrComprobanteInvalido, encf)
	}
	if encf[1:3] != tipoECF {
		return fmt.Errorf("%w: el tipo del eNCF (%s) no coincide con TipoeCF (%s)", ErrComprobanteInvalido, encf[1:3], tipoECF)
	}
	return nil
}

// ValidateComprobante valida el comprobante y sus detalles antes de generar el
// XML. Reglas de negocio que el generador asume cumplidas (§ reglas emisor):
// emisor completo, eNCF coherente, líneas secuenciales sin huecos, cantidades
// y precios positivos, grados de alcohol presentes cuando la línea trae ISC.
func ValidateComprobante(c *entity.Comprobante, detalles []*entity.ComprobanteDetalle, emisor *entity.Empresa) error {
	if c == nil {
		return fmt.Errorf("%w: comprobante nulo", ErrComprobanteInvalido)
	}
	var errs []error

	if !dgii.ValidTipoECF[c.TipoECF] {
		errs = append(errs, fmt.Errorf("tipo de e-CF desconocido: %q", c.TipoECF))
	} else if err := ValidateENCF(c.ENCF, c.TipoECF); err != nil {
		errs = append(errs, err)
	}

	if emisor == nil {
		errs = append(errs, errors.New("emisor requerido"))
	} else {
		if err := dgii.ValidateRNC(emisor.RNC); err != nil {
			errs = append(errs, fmt.Errorf("emisor: %w", err))
		}
		if emisor.RazonSocial == "" {
			errs = append(errs, errors.New("emisor: razón social requerida"))
		}
	}

	if c.EsNotaModificacion() && c.NCFModificado == "" {
		errs = append(errs, fmt.Errorf("tipo %s requiere NCFModificado", c.TipoECF))
	}

	if len(detalles) == 0 {
		errs = append(errs, errors.New("el comprobante debe tener al menos una línea"))
	}
	for i, d := range detalles {
		if d.NumeroLinea != i+1 {
			errs = append(errs, fmt.Errorf("línea %d: NumeroLinea %d fuera de secuencia", i+1, d.NumeroLinea))
		}
		if !d.Cantidad.GreaterThan(decimal.Zero) {
			errs = append(errs, fmt.Errorf("línea %d: cantidad debe ser > 0", d.NumeroLinea))
		}
		if !d.PrecioUnitario.GreaterThan(decimal.Zero) {
			errs = append(errs, fmt.Errorf("línea %d: precio unitario debe ser > 0", d.NumeroLinea))
		}
		if d.Descuento.IsNegative() {
			errs = append(errs, fmt.Errorf("línea %d: descuento no puede ser negativo", d.NumeroLinea))
		}
		if d.NombreItem == "" {
			errs = append(errs, fmt.Errorf("línea %d: nombre de ítem requerido", d.NumeroLinea))
		}
		if d.ISC != nil && !d.ISC.GradosAlcohol.IsPositive() {
			errs = append(errs, fmt.Errorf("línea %d: grados de alcohol requeridos cuando aplica ISC", d.NumeroLinea))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrComprobanteInvalido}, errs...)...)
	}
	return nil
}
