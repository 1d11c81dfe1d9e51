package facturacion

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
	"github.com/kenjidavila/ecf-rd/internal/domain/repository"
	infradgii "github.com/kenjidavila/ecf-rd/internal/infrastructure/dgii"
	"github.com/kenjidavila/ecf-rd/internal/infrastructure/dgii/signer"
	pkgdgii "github.com/kenjidavila/ecf-rd/pkg/dgii"
	"github.com/kenjidavila/ecf-rd/pkg/logger"
)

// DGIIOrchestrator orquesta el ciclo completo de firma y envío electrónico DGII:
//
//	XML e-CF → Firma XMLDSig → CódigoSeguridad → QR → Envío REST → Update DB
//
// Se ejecuta siempre en goroutine independiente (ProcessAsync) con su propio
// context.Background() + timeout 30 s, desacoplado del ciclo HTTP.
//
// Modos de operación (controlados por DGIIConfig.AppEnv):
//   - "dev"  → Genera y firma el XML, NO envía al WS DGII. Estado final: ACEPTADO (simulado).
//   - "test" → Envía al ambiente de pruebas TesteCF.
//   - "cert" → Envía al ambiente de certificación CerteCF.
//   - "prod" → Envía al ambiente de producción eCF.
type DGIIOrchestrator struct {
	comprobanteRepo repository.ComprobanteRepository
	empresaRepo     repository.EmpresaRepository
	clienteRepo     repository.ClienteRepository
	xmlGenerator    *infradgii.XMLGeneratorService
	signer          pkgdgii.Signer
	submitter       infradgii.Submitter // cliente REST; nil en dev
	dgiiConfig      DGIIConfig
	log             *logger.Logger
}

// Ensure DGIIOrchestrator implements Procesador.
var _ Procesador = (*DGIIOrchestrator)(nil)

// NewDGIIOrchestrator construye el orquestador con todas sus dependencias.
// submitter puede ser nil: en ese caso el modo dev es el único que funciona.
func NewDGIIOrchestrator(
	comprobanteRepo repository.ComprobanteRepository,
	empresaRepo repository.EmpresaRepository,
	clienteRepo repository.ClienteRepository,
	xmlGenerator *infradgii.XMLGeneratorService,
	sig pkgdgii.Signer,
	submitter infradgii.Submitter,
	dgiiConfig DGIIConfig,
	log *logger.Logger,
) *DGIIOrchestrator {
	return &DGIIOrchestrator{
		comprobanteRepo: comprobanteRepo,
		empresaRepo:     empresaRepo,
		clienteRepo:     clienteRepo,
		xmlGenerator:    xmlGenerator,
		signer:          sig,
		submitter:       submitter,
		dgiiConfig:      dgiiConfig,
		log:             log,
	}
}

// ProcessAsync dispara el procesamiento DGII en una goroutine independiente.
// comprobanteID es el ID del comprobante ya persistido en estado BORRADOR.
func (o *DGIIOrchestrator) ProcessAsync(comprobanteID string) {
	go o.process(comprobanteID)
}

// process es el núcleo síncrono del orquestador. Siempre termina actualizando
// el estado en la DB (ACEPTADO, RECHAZADO o ERROR_GENERACION).
func (o *DGIIOrchestrator) process(comprobanteID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// markError actualiza el comprobante a ERROR_GENERACION y hace log del problema.
	markError := func(c *entity.Comprobante, step, msg string) {
		c.Estado = entity.ECFStatusErrorGeneracion
		c.DGIIErrores = msg
		c.UpdatedAt = time.Now()
		if err := o.comprobanteRepo.Update(c); err != nil {
			o.log.Error().Str("comprobante_id", comprobanteID).Err(err).
				Msg("no se pudo persistir ERROR_GENERACION")
		}
		o.log.Error().Str("comprobante_id", comprobanteID).Str("step", step).
			Msg(msg)
	}

	// 0. Re-fetch datos frescos (evita data races con el goroutine HTTP)
	c, err := o.comprobanteRepo.GetByID(comprobanteID)
	if err != nil || c == nil {
		o.log.Error().Str("comprobante_id", comprobanteID).Err(err).
			Msg("comprobante no encontrado")
		return
	}
	if c.Estado != entity.ECFStatusBorrador {
		o.log.Warn().Str("comprobante_id", comprobanteID).Str("estado", c.Estado).
			Msg("estado inesperado (ya procesado?), saltando")
		return
	}

	emisor, err := o.empresaRepo.GetByID(c.EmpresaID)
	if err != nil || emisor == nil {
		markError(c, "fetch-empresa", fmt.Sprintf("empresa %s no encontrada: %v", c.EmpresaID, err))
		return
	}

	var comprador *entity.Cliente
	if c.ClienteID != "" {
		comprador, err = o.clienteRepo.GetByID(c.ClienteID)
		if err != nil || comprador == nil {
			markError(c, "fetch-cliente", fmt.Sprintf("cliente %s no encontrado: %v", c.ClienteID, err))
			return
		}
	}

	detalles, err := o.comprobanteRepo.GetDetallesByComprobanteID(comprobanteID)
	if err != nil {
		markError(c, "fetch-detalles", fmt.Sprintf("error obteniendo detalles: %v", err))
		return
	}

	buildCtx := &infradgii.ComprobanteBuildContext{
		Comprobante: c,
		Emisor:      emisor,
		Comprador:   comprador,
		Detalles:    detalles,
	}

	// 1. XML preliminar sin bloque FirmaDigital (el código de seguridad
	// se deriva del SignatureValue, así que todavía no existe)
	xmlBytes, errXML := o.xmlGenerator.GenerateECFXML(buildCtx)
	if errXML != nil {
		markError(c, "xml-build", errXML.Error())
		return
	}

	// 2. Firma digital XMLDSig envuelta
	cert, errCert := loadCertificate(o.dgiiConfig)
	if errCert != nil {
		markError(c, "cert-load", errCert.Error())
		return
	}
	if len(cert.Certificate) == 0 || cert.PrivateKey == nil {
		markError(c, "cert-load", "certificado vacío: verifica DGII_CERT_PATH y DGII_CERT_PASSWORD")
		return
	}

	signed, errSign := o.signer.Sign(xmlBytes, cert)
	if errSign != nil {
		markError(c, "xml-sign", errSign.Error())
		return
	}

	// 3. XML definitivo con FirmaDigital (CódigoSeguridad + FechaHoraFirma) y
	// re-firma para que la firma cubra el documento final
	c.CodigoSeguridad = signed.CodigoSeguridad
	fechaFirma := signed.FechaFirma
	c.FechaFirma = &fechaFirma

	finalXML, errXML := o.xmlGenerator.GenerateECFXML(buildCtx)
	if errXML != nil {
		markError(c, "xml-rebuild", errXML.Error())
		return
	}
	signedFinal, errSign := o.signer.Sign(finalXML, cert)
	if errSign != nil {
		markError(c, "xml-resign", errSign.Error())
		return
	}

	// Actualizar en DB como FIRMADO (XML firmado disponible para descarga)
	c.QRURL = o.xmlGenerator.GenerateQRCodeURL(c, emisor.RNC, false)
	c.XMLFirmado = string(signedFinal.XML)
	c.Estado = entity.ECFStatusFirmado
	c.UpdatedAt = time.Now()
	if err := o.comprobanteRepo.Update(c); err != nil {
		o.log.Error().Str("comprobante_id", comprobanteID).Err(err).
			Msg("error persistiendo FIRMADO")
		return
	}

	// 4. Envío condicional al WS DGII
	appEnv := strings.ToLower(strings.TrimSpace(o.dgiiConfig.AppEnv))
	filename := infradgii.ECFFilename(emisor.RNC, c.ENCF)

	var estadoFinal, trackID, dgiiErrores string

	switch appEnv {
	case infradgii.AppEnvDev, "":
		// Modo desarrollo: simular respuesta, no enviar
		o.log.Info().Str("comprobante_id", comprobanteID).Str("archivo", filename).
			Int("bytes", len(signedFinal.XML)).
			Msg("[DEV] simulando envío a DGII")
		trackID = "DEV-TRACK-" + c.CodigoSeguridad
		estadoFinal = entity.ECFStatusAceptado

	case infradgii.AppEnvTest, infradgii.AppEnvCert, infradgii.AppEnvProd:
		if o.submitter == nil {
			markError(c, "recepcion", "Submitter no inyectado para entorno "+appEnv)
			return
		}
		result, subErr := o.submitter.SubmitECF(ctx, signedFinal.XML, filename, appEnv)
		if subErr != nil {
			markError(c, "recepcion", subErr.Error())
			return
		}
		trackID = result.TrackID
		dgiiErrores = result.Errores
		if result.Aceptado {
			estadoFinal = entity.ECFStatusAceptado
			o.log.Info().Str("comprobante_id", comprobanteID).Str("track_id", trackID).
				Msg("aceptado por la DGII")
		} else {
			estadoFinal = entity.ECFStatusRechazado
			o.log.Warn().Str("comprobante_id", comprobanteID).Str("errores", dgiiErrores).
				Msg("rechazado por la DGII")
		}

	default:
		markError(c, "config", fmt.Sprintf("DGII_ENV desconocido: %q (usar dev|test|cert|prod)", appEnv))
		return
	}

	// 5. Persistir resultado final en DB
	c.Estado = estadoFinal
	c.TrackID = trackID
	c.DGIIErrores = dgiiErrores
	c.UpdatedAt = time.Now()

	if err := o.comprobanteRepo.Update(c); err != nil {
		o.log.Error().Str("comprobante_id", comprobanteID).Str("estado", estadoFinal).Err(err).
			Msg("error persistiendo estado final")
		return
	}

	o.log.Info().Str("comprobante_id", comprobanteID).Str("encf", c.ENCF).
		Str("estado", estadoFinal).Str("track_id", trackID).
		Msg("comprobante procesado")
}

// loadCertificate carga el certificado según la extensión de CertPath:
// .p12/.pfx → PKCS#12; otro → par PEM.
func loadCertificate(cfg DGIIConfig) (tls.Certificate, error) {
	if cfg.CertPath == "" {
		return tls.Certificate{}, fmt.Errorf("DGII_CERT_PATH no configurado")
	}
	lower := strings.ToLower(cfg.CertPath)
	if strings.HasSuffix(lower, ".p12") || strings.HasSuffix(lower, ".pfx") {
		return signer.LoadFromP12(cfg.CertPath, cfg.CertPassword)
	}
	return signer.LoadFromPEM(cfg.CertPath, cfg.CertKeyPath)
}
