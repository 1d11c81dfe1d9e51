package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleFacturador = "facturador"
	RoleConsulta   = "consulta"
)

// User representa un usuario del sistema (pertenece a una Empresa).
type User struct {
	ID           string
	EmpresaID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, facturador, consulta
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
