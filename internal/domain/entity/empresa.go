package entity

import "time"

// Empresa representa una organización/tenant emisora de e-CF.
type Empresa struct {
	ID              string
	RNC             string // RNC del emisor (9 dígitos, con o sin guiones)
	RazonSocial     string
	NombreComercial string // opcional; el elemento se omite si está vacío
	Direccion       string
	Municipio       string
	Provincia       string
	Telefono        string
	Email           string
	Status          string // active, suspended, inactive
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
