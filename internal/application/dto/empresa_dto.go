package dto

import "time"

// CreateEmpresaRequest entrada para crear una empresa emisora.
type CreateEmpresaRequest struct {
	RNC             string `json:"rnc" validate:"required,min=9,max=13"`
	RazonSocial     string `json:"razon_social" validate:"required,min=1,max=200"`
	NombreComercial string `json:"nombre_comercial"`
	Direccion       string `json:"direccion" validate:"required"`
	Municipio       string `json:"municipio" validate:"required"`
	Provincia       string `json:"provincia" validate:"required"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email" validate:"omitempty,email"`
}

// EmpresaListResponse listado paginado de empresas.
type EmpresaListResponse struct {
	Items []EmpresaResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// EmpresaResponse salida de una empresa.
type EmpresaResponse struct {
	ID              string    `json:"id"`
	RNC             string    `json:"rnc"`
	RazonSocial     string    `json:"razon_social"`
	NombreComercial string    `json:"nombre_comercial,omitempty"`
	Direccion       string    `json:"direccion"`
	Municipio       string    `json:"municipio"`
	Provincia       string    `json:"provincia"`
	Telefono        string    `json:"telefono,omitempty"`
	Email           string    `json:"email,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
