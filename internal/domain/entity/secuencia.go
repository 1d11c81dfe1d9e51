package entity

import (
	"fmt"
	"time"
)

// Secuencia representa un rango de eNCF autorizado por la DGII para un tipo
// de e-CF. Cada empresa puede tener varias; solo una activa por tipo.
type Secuencia struct {
	ID               string
	EmpresaID        string
	TipoECF          string // 31, 32, ...
	Desde            int64  // secuencial inicial autorizado
	Hasta            int64  // secuencial final autorizado
	Proximo          int64  // siguiente secuencial a asignar
	FechaVencimiento time.Time
	Activa           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Agotada reporta si no quedan secuenciales disponibles en el rango.
func (s *Secuencia) Agotada() bool {
	return s.Proximo > s.Hasta
}

// Vencida reporta si la secuencia ya no es utilizable a la fecha dada.
func (s *Secuencia) Vencida(ref time.Time) bool {
	return ref.After(s.FechaVencimiento)
}

// FormatENCF compone el eNCF para un secuencial: E + tipo + 10 dígitos.
// Ejemplo: tipo 31, secuencial 1 → E310000000001.
func FormatENCF(tipoECF string, secuencial int64) string {
	return fmt.Sprintf("E%s%010d", tipoECF, secuencial)
}
