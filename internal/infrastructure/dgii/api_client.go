package dgii

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ── Constantes de entorno ──────────────────────────────────────────────────────

const (
	// AppEnvDev es el identificador local: no envía al WS DGII.
	AppEnvDev = "dev"
	// AppEnvTest es el ambiente de pruebas (TesteCF).
	AppEnvTest = "test"
	// AppEnvCert es el ambiente de certificación (CerteCF).
	AppEnvCert = "cert"
	// AppEnvProd es el ambiente de producción (eCF).
	AppEnvProd = "prod"

	recepcionURLTest = "https://ecf.dgii.gov.do/testecf/recepcion/api/facturas"
	recepcionURLCert = "https://ecf.dgii.gov.do/certecf/recepcion/api/facturas"
	recepcionURLProd = "https://ecf.dgii.gov.do/ecf/recepcion/api/facturas"
)

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// SubmitResult resultado de la entrega al WS de recepción DGII.
type SubmitResult struct {
	TrackID  string // identificador de seguimiento devuelto por la DGII
	Aceptado bool   // true si la DGII recibió el documento sin rechazo
	Errores  string // mensajes de rechazo (puede ser vacío)
}

// Submitter define el puerto de salida para la entrega del XML firmado a la
// DGII. La implementación concreta usa HTTP; para tests se inyecta un mock.
type Submitter interface {
	// SubmitECF envía el XML firmado al WS de recepción.
	// env debe ser "test", "cert" o "prod"; determina la URL del endpoint.
	// filename es el nombre del archivo XML (ej: "130000001E310000000001.xml").
	SubmitECF(ctx context.Context, xmlBytes []byte, filename, env string) (*SubmitResult, error)
}

// ── Implementación HTTP ────────────────────────────────────────────────────────

// RecepcionClient implementa Submitter contra la API de recepción de la DGII.
type RecepcionClient struct {
	httpClient *http.Client
}

// NewRecepcionClient construye el cliente con un timeout de red generoso
// (60 s) ya que el WS DGII puede tardar varios segundos en responder.
func NewRecepcionClient() *RecepcionClient {
	return &RecepcionClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// recepcionResponse respuesta JSON de la API de recepción.
type recepcionResponse struct {
	TrackID  string `json:"trackId"`
	Codigo   int    `json:"codigo"`
	Estado   string `json:"estado"`
	Mensajes []struct {
		Valor  string `json:"valor"`
		Codigo int    `json:"codigo"`
	} `json:"mensajes"`
}

// SubmitECF envía el XML como multipart/form-data al endpoint del entorno.
func (c *RecepcionClient) SubmitECF(ctx context.Context, xmlBytes []byte, filename, env string) (*SubmitResult, error) {
	endpoint, err := recepcionURL(env)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("xml", filename)
	if err != nil {
		return nil, fmt.Errorf("dgii: crear multipart: %w", err)
	}
	if _, err := fw.Write(xmlBytes); err != nil {
		return nil, fmt.Errorf("dgii: escribir XML en multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("dgii: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("dgii: crear request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("dgii: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("dgii: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("dgii: leer respuesta: %w", err)
	}

	return parseRecepcionResponse(rawBody, resp.StatusCode), nil
}

func recepcionURL(env string) (string, error) {
	switch env {
	case AppEnvTest:
		return recepcionURLTest, nil
	case AppEnvCert:
		return recepcionURLCert, nil
	case AppEnvProd:
		return recepcionURLProd, nil
	default:
		return "", fmt.Errorf("dgii: entorno desconocido %q (usar 'test', 'cert' o 'prod')", env)
	}
}

// parseRecepcionResponse desempaqueta la respuesta y extrae TrackID y errores.
// Una respuesta que no se puede parsear no aborta: se devuelve como rechazo
// con el cuerpo crudo para diagnóstico.
func parseRecepcionResponse(rawBody []byte, statusCode int) *SubmitResult {
	var r recepcionResponse
	if err := json.Unmarshal(rawBody, &r); err != nil {
		return &SubmitResult{
			Aceptado: false,
			Errores:  fmt.Sprintf("no se pudo parsear respuesta DGII (HTTP %d): %s", statusCode, string(rawBody)),
		}
	}

	var msgs []string
	for _, m := range r.Mensajes {
		if m.Valor != "" {
			msgs = append(msgs, m.Valor)
		}
	}
	errMsg := strings.Join(msgs, "; ")

	aceptado := statusCode >= 200 && statusCode < 300 && r.TrackID != ""
	if !aceptado && errMsg == "" {
		errMsg = fmt.Sprintf("recepción rechazada (HTTP %d, estado %q)", statusCode, r.Estado)
	}
	return &SubmitResult{
		TrackID:  r.TrackID,
		Aceptado: aceptado,
		Errores:  errMsg,
	}
}
