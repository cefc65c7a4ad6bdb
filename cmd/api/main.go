package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/taller-api/internal/application/access"
	"github.com/jhoicas/taller-api/internal/application/recovery"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/email"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/metrics"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/taller-api/internal/infrastructure/sms"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// recoveryStores almacenes de códigos, tokens y marcas (Redis o memoria del proceso).
type recoveryStores struct {
	codes    repository.VerificationCodeStore
	tokens   repository.ResetTokenStore
	verified repository.VerifiedPhoneStore
	closeFn  func() error
}

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
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	stores, err := newRecoveryStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenes de recuperación")
	}
	defer func() {
		if err := stores.closeFn(); err != nil {
			log.Warn().Err(err).Msg("cerrar almacenes")
		}
	}()

	emailSender, err := email.New(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.App.IsDevelopment(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("email sender")
	}
	smsSender := sms.New(sms.ESMSConfig{
		APIKey:    cfg.SMS.APIKey,
		SecretKey: cfg.SMS.SecretKey,
		Brandname: cfg.SMS.Brandname,
		BaseURL:   cfg.SMS.BaseURL,
	}, cfg.App.IsDevelopment(), log)
	if !cfg.App.IsDevelopment() {
		if cfg.SMS.APIKey == "" || cfg.SMS.SecretKey == "" {
			log.Warn().Msg("ESMS sin credenciales: las solicitudes por teléfono responderán error de entrega")
		}
		if cfg.Email.ResendAPIKey == "" {
			log.Warn().Msg("RESEND_API_KEY vacío: las solicitudes por email responderán error de entrega")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recoverySvc, err := recovery.NewService(recovery.Deps{
		Users:    userRepo,
		Codes:    stores.codes,
		Tokens:   stores.tokens,
		Verified: stores.verified,
		SMS:      smsSender,
		Email:    emailSender,
		Metrics:  m,
		Logger:   log,
	}, recovery.Config{
		FrontendURL:          cfg.Recovery.FrontendURL,
		CodeTTL:              cfg.Recovery.CodeTTL,
		TokenTTL:             cfg.Recovery.TokenTTL,
		ExposeCode:           cfg.App.IsDevelopment(),
		FixedCodes:           entity.FixedCodes(cfg.Recovery.TestPhones),
		RequireVerifiedPhone: cfg.Recovery.RequireVerifiedPhone,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de recuperación")
	}
	resolver := access.NewResolver(roleRepo, m, log)
	userUC := usecase.NewUserUseCase(userRepo, txRunner, log)

	sweeper := recovery.NewSweeper(cfg.Recovery.SweepInterval, m, log)
	sweeper.Add("codes", stores.codes)
	sweeper.Add("tokens", stores.tokens)
	sweeper.Add("verified", stores.verified)
	go sweeper.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 20,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Taller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Recovery:          recoverySvc,
		Users:             userUC,
		Authz:             resolver,
		JWTSecret:         cfg.JWT.Secret,
		UniformResponses:  cfg.Recovery.UniformResponses,
		RecoveryRateLimit: cfg.HTTP.RecoveryRateLimit,
		Metrics:           m,
		Gatherer:          prometheus.DefaultGatherer,
		Logger:            log,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newRecoveryStores usa Redis si REDIS_ADDR está definido; si no, memoria del proceso
// (válido solo con una réplica).
func newRecoveryStores(ctx context.Context, cfg *config.Config) (*recoveryStores, error) {
	fixed := entity.FixedCodes(cfg.Recovery.TestPhones)
	if !cfg.Redis.Enabled() {
		return &recoveryStores{
			codes:    memory.NewCodeStore(cfg.Recovery.CodeTTL, fixed),
			tokens:   memory.NewTokenStore(cfg.Recovery.TokenTTL),
			verified: memory.NewVerifiedStore(cfg.Recovery.TokenTTL),
			closeFn:  func() error { return nil },
		}, nil
	}

	addrs := strings.Split(cfg.Redis.Addr, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}
	rdb, err := redisstore.NewClient(ctx, redisstore.Options{
		Addrs:    addrs,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	return &recoveryStores{
		codes:    redisstore.NewCodeStore(rdb, cfg.Recovery.CodeTTL, fixed),
		tokens:   redisstore.NewTokenStore(rdb, cfg.Recovery.TokenTTL),
		verified: redisstore.NewVerifiedStore(rdb, cfg.Recovery.TokenTTL),
		closeFn:  rdb.Close,
	}, nil
}
