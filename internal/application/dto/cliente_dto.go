package dto

// CreateClienteRequest body para POST /api/clientes.
// RNC o IdentificadorExtranjero: al menos uno, nunca ambos.
type CreateClienteRequest struct {
	RNC                     string `json:"rnc"`
	IdentificadorExtranjero string `json:"identificador_extranjero"`
	RazonSocial             string `json:"razon_social" validate:"required,min=1,max=200"`
	Direccion               string `json:"direccion"`
	Municipio               string `json:"municipio"`
	Provincia               string `json:"provincia"`
	Contacto                string `json:"contacto"`
}

// ClienteListResponse listado paginado de clientes.
type ClienteListResponse struct {
	Items []ClienteResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ClienteResponse cliente en respuestas.
type ClienteResponse struct {
	ID                      string `json:"id"`
	EmpresaID               string `json:"empresa_id"`
	RNC                     string `json:"rnc,omitempty"`
	IdentificadorExtranjero string `json:"identificador_extranjero,omitempty"`
	RazonSocial             string `json:"razon_social"`
	Direccion               string `json:"direccion,omitempty"`
	Municipio               string `json:"municipio,omitempty"`
	Provincia               string `json:"provincia,omitempty"`
	Contacto                string `json:"contacto,omitempty"`
}
