package entity

import "time"

// Cliente representa un comprador (receptor de e-CF). En comprobantes con
// comprador extranjero se usa IdentificadorExtranjero en lugar de RNC.
type Cliente struct {
	ID                      string
	EmpresaID               string
	RNC                     string // RNC o cédula; vacío para extranjeros
	IdentificadorExtranjero string
	RazonSocial             string
	Direccion               string
	Municipio               string
	Provincia               string
	Contacto                string // correo o teléfono de contacto
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
