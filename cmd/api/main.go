package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kenjidavila/ecf-rd/internal/application/auth"
	"github.com/kenjidavila/ecf-rd/internal/application/facturacion"
	"github.com/kenjidavila/ecf-rd/internal/application/usecase"
	infradgii "github.com/kenjidavila/ecf-rd/internal/infrastructure/dgii"
	"github.com/kenjidavila/ecf-rd/internal/infrastructure/dgii/signer"
	"github.com/kenjidavila/ecf-rd/internal/infrastructure/postgres"
	httpRouter "github.com/kenjidavila/ecf-rd/internal/interfaces/http"
	"github.com/kenjidavila/ecf-rd/pkg/config"
	"github.com/kenjidavila/ecf-rd/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("dgii_env", cfg.DGII.AppEnv).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	empresaRepo := postgres.NewEmpresaRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	secuenciaRepo := postgres.NewSecuenciaRepository(pool)
	comprobanteRepo := postgres.NewComprobanteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	xmlGenerator := infradgii.NewXMLGeneratorService()
	signerSvc := signer.NewDigitalSignatureService()
	dgiiCfg := facturacion.DGIIConfig{
		AppEnv:       cfg.DGII.AppEnv,
		CertPath:     cfg.DGII.CertPath,
		CertKeyPath:  cfg.DGII.CertKeyPath,
		CertPassword: cfg.DGII.CertPassword,
	}

	// Cliente REST de recepción DGII — solo se usa si AppEnv es "test",
	// "cert" o "prod". En modo "dev" el orquestador no lo invoca.
	var submitter infradgii.Submitter
	if cfg.DGII.AppEnv != infradgii.AppEnvDev && cfg.DGII.AppEnv != "" {
		submitter = infradgii.NewRecepcionClient()
	}

	// DGIIOrchestrator: ciclo XML → XMLDSig → CódigoSeguridad → QR → Envío → Update DB
	orchestrator := facturacion.NewDGIIOrchestrator(
		comprobanteRepo, empresaRepo, clienteRepo,
		xmlGenerator, signerSvc, submitter, dgiiCfg, log,
	)

	emitirUC := facturacion.NewEmitirComprobanteUseCase(
		txRunner, empresaRepo, clienteRepo, itemRepo, comprobanteRepo, orchestrator,
	)
	clienteUC := facturacion.NewClienteUseCase(clienteRepo)
	secuenciaUC := facturacion.NewSecuenciaUseCase(secuenciaRepo)
	empresaUC := usecase.NewEmpresaUseCase(empresaRepo)
	itemUC := usecase.NewItemUseCase(itemRepo)
	authUC := auth.NewAuthUseCase(userRepo, empresaRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "e-CF RD API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		EmpresaUC:   empresaUC,
		ItemUC:      itemUC,
		ClienteUC:   clienteUC,
		SecuenciaUC: secuenciaUC,
		EmitirUC:    emitirUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
