package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un bien o servicio del catálogo facturable de la empresa.
type Item struct {
	ID           string
	EmpresaID    string
	Codigo       string // código único por empresa
	Nombre       string
	Descripcion  string
	TipoItem     int             // 1 = bien, 2 = servicio
	Precio       decimal.Decimal // precio de venta unitario
	TasaITBIS    string          // etiqueta: "18", "16", "0", "E"
	UnidadMedida string          // catálogo DGII (43 = unidad)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
