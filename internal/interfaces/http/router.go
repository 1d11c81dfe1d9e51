package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kenjidavila/ecf-rd/internal/application/auth"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/application/usecase"
	"github.com/kenjidavila/ecf-rd/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EmpresaUC   *usecase.EmpresaUseCase
	ItemUC      *usecase.ItemUseCase
	ClienteUC   *facturacion.ClienteUseCase
	SecuenciaUC *facturacion.SecuenciaUseCase
	EmitirUC    *facturacion.EmitirComprobanteUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Empresas (público por ahora; el registro inicial no tiene token)
	empresas := api.Group("/empresas")
	empresaHandler := NewEmpresaHandler(deps.EmpresaUC)
	empresas.Get("/", empresaHandler.List)
	empresas.Post("/", empresaHandler.Create)
	empresas.Get("/:id", empresaHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Roles: consulta solo lee; facturador emite; admin administra secuencias.
	puedeEmitir := RequireRole(entity.RoleAdmin, entity.RoleFacturador)
	soloAdmin := RequireRole(entity.RoleAdmin)

	// Clientes (protegido)
	clientes := protected.Group("/clientes")
	clienteHandler := NewClienteHandler(deps.ClienteUC)
	clientes.Post("/", puedeEmitir, clienteHandler.Create)
	clientes.Get("/", clienteHandler.List)
	clientes.Get("/:id", clienteHandler.GetByID)
	clientes.Delete("/:id", soloAdmin, clienteHandler.Delete)

	// Ítems (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", puedeEmitir, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Delete("/:id", soloAdmin, itemHandler.Delete)

	// Secuencias de eNCF (protegido, solo admin modifica)
	secuencias := protected.Group("/secuencias")
	secuenciaHandler := NewSecuenciaHandler(deps.SecuenciaUC)
	secuencias.Post("/", soloAdmin, secuenciaHandler.Create)
	secuencias.Get("/", secuenciaHandler.List)
	secuencias.Post("/:id/desactivar", soloAdmin, secuenciaHandler.Desactivar)

	// Comprobantes (protegido)
	comprobantes := protected.Group("/comprobantes")
	comprobanteHandler := NewComprobanteHandler(deps.EmitirUC)
	comprobantes.Post("/", puedeEmitir, comprobanteHandler.Emitir)
	comprobantes.Get("/", comprobanteHandler.List)
	comprobantes.Get("/:id", comprobanteHandler.GetByID)
	comprobantes.Get("/:id/estado", comprobanteHandler.GetEstado)
	comprobantes.Get("/:id/xml", comprobanteHandler.DownloadXML)
}
