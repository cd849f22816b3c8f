package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/jhoicas/Catalogo-api/internal/application/auth"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/application/media"
	"github.com/jhoicas/Catalogo-api/internal/application/ranking"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/qoo10"
	infraredis "github.com/jhoicas/Catalogo-api/internal/infrastructure/redis"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
	"github.com/jhoicas/Catalogo-api/pkg/metrics"
	"github.com/jhoicas/Catalogo-api/pkg/monitoring"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.MigrateUpFromPool(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	// Redis es opcional: idempotencia, rate limit de login, caché de perfil y lock del refresher.
	var redisClient *infraredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = infraredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
	} else {
		log.Warn().Msg("Redis no configurado: sin idempotencia ni lock del refresher")
	}

	// Métricas
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(reg)
	jobMetrics := metrics.NewJobMetrics(reg)
	reporter := monitoring.NewLogReporter(log, reg)

	// Repositorios
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	marketRepo := postgres.NewMarketPlaceRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	rankingRepo := postgres.NewRankingRepository(pool)
	mediaRepo := postgres.NewMediaAssetRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, brandRepo)
	brandUC := usecase.NewBrandUseCase(brandRepo, categoryRepo, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, brandRepo, variantRepo)
	variantUC := usecase.NewVariantUseCase(variantRepo, productRepo, brandRepo, categoryRepo, movementRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, movementRepo, balanceRepo, variantUC,
		inventory.WithAllowNegativeStock(cfg.Ledger.AllowNegativeStock),
		inventory.WithMetrics(ledgerMetrics),
	)
	marketUC := usecase.NewMarketPlaceUseCase(marketRepo)
	listingUC := usecase.NewListingUseCase(listingRepo, marketRepo, variantRepo)

	scraper := qoo10.NewScraper(cfg.Ranking.BaseURL, cfg.Ranking.RequestTimeout)
	rankingUC := ranking.NewUseCase(rankingRepo, scraper,
		infrapdf.NewRankingReportRenderer(cfg.Ranking.BaseURL), cfg.Ranking.RetentionDays)

	objectStorage, err := newObjectStorage(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	mediaUC := media.NewUseCase(mediaRepo, objectStorage, cfg.Storage.MaxBytes)
	batchSvc := media.NewBatchService(mediaUC, media.NewRegistry(cfg.Storage.BatchTTL))

	// Refresco programado de rankings
	refresherParams := ranking.RefresherParams{
		UseCase:     rankingUC,
		Logger:      log,
		Categories:  cfg.Ranking.Categories,
		Interval:    cfg.Ranking.RefreshInterval,
		Concurrency: cfg.Ranking.Concurrency,
		Metrics:     jobMetrics,
	}
	if redisClient != nil {
		lock, err := redisClient.NewLock("ranking-refresh", cfg.Ranking.RefreshInterval)
		if err != nil {
			log.Fatal().Err(err).Msg("lock del refresher")
		}
		refresherParams.Lock = lock
	}
	refresher, err := ranking.NewRefresher(refresherParams)
	if err != nil {
		log.Fatal().Err(err).Msg("refresher de rankings")
	}
	refresherDone := make(chan error, 1)
	go func() { refresherDone <- refresher.Run(ctx) }()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 2, // lotes con wait=true
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(cfg.Storage.MaxBytes)*media.MaxBatchFiles + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler(log, reporter),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-Id",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Catálogo API",
		}))
	}

	if cfg.Storage.CloudinaryURL == "" {
		app.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	deps := httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		CategoryUC:   categoryUC,
		BrandUC:      brandUC,
		ProductUC:    productUC,
		VariantUC:    variantUC,
		LedgerUC:     ledgerUC,
		MarketUC:     marketUC,
		ListingUC:    listingUC,
		RankingUC:    rankingUC,
		MediaUC:      mediaUC,
		MediaBatches: batchSvc,
		JWTSecret:    cfg.JWT.Secret,
		LoginLimit:   cfg.HTTP.LoginRateLimit,
		Health: func(ctx context.Context) error {
			err := pool.Ping(ctx)
			if redisClient != nil {
				err = multierr.Append(err, redisClient.Ping(ctx))
			}
			return err
		},
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}
	if redisClient != nil {
		deps.Idempotency = redisClient
		deps.RateLimiter = redisClient
		deps.ProfileCache = redisClient
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, app.ShutdownWithContext(shutdownCtx))
	select {
	case err := <-refresherDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			shutdownErr = multierr.Append(shutdownErr, err)
		}
	case <-shutdownCtx.Done():
		shutdownErr = multierr.Append(shutdownErr, errors.New("refresher no terminó a tiempo"))
	}
	if shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("apagado con errores")
	}

	log.Info().Msg("aplicación detenida")
}

// newObjectStorage usa Cloudinary si hay CLOUDINARY_URL; si no, disco local servido como estático.
func newObjectStorage(cfg config.StorageConfig) (media.ObjectStorage, error) {
	if cfg.CloudinaryURL != "" {
		return storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.Folder)
	}
	return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
}
