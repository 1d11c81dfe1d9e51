package dto

import "github.com/shopspring/decimal"

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Codigo       string          `json:"codigo" validate:"required,min=1,max=50"`
	Nombre       string          `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion  string          `json:"descripcion"`
	TipoItem     int             `json:"tipo_item" validate:"required,oneof=1 2"`
	Precio       decimal.Decimal `json:"precio"`
	TasaITBIS    string          `json:"tasa_itbis" validate:"required,oneof=18 16 0 E"`
	UnidadMedida string          `json:"unidad_medida"`
}

// ItemListResponse listado paginado de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemResponse ítem del catálogo en respuestas.
type ItemResponse struct {
	ID           string          `json:"id"`
	EmpresaID    string          `json:"empresa_id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion,omitempty"`
	TipoItem     int             `json:"tipo_item"`
	Precio       decimal.Decimal `json:"precio"`
	TasaITBIS    string          `json:"tasa_itbis"`
	UnidadMedida string          `json:"unidad_medida"`
}
