package dto

import "time"

// CreateSecuenciaRequest body para POST /api/secuencias: registra un rango de
// eNCF autorizado por la DGII para un tipo de e-CF.
type CreateSecuenciaRequest struct {
	TipoECF          string    `json:"tipo_ecf" validate:"required"`
	Desde            int64     `json:"desde" validate:"required,min=1"`
	Hasta            int64     `json:"hasta" validate:"required,min=1"`
	FechaVencimiento time.Time `json:"fecha_vencimiento" validate:"required"`
}

// SecuenciaListResponse listado de secuencias de la empresa.
type SecuenciaListResponse struct {
	Items []SecuenciaResponse `json:"items"`
}

// SecuenciaResponse secuencia en respuestas. Disponibles = hasta − próximo + 1.
type SecuenciaResponse struct {
	ID               string    `json:"id"`
	EmpresaID        string    `json:"empresa_id"`
	TipoECF          string    `json:"tipo_ecf"`
	Desde            int64     `json:"desde"`
	Hasta            int64     `json:"hasta"`
	Proximo          int64     `json:"proximo"`
	Disponibles      int64     `json:"disponibles"`
	FechaVencimiento time.Time `json:"fecha_vencimiento"`
	Activa           bool      `json:"activa"`
}
