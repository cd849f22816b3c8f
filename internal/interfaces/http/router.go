package http

import (
	"context"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Catalogo-api/internal/application/auth"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/application/media"
	"github.com/jhoicas/Catalogo-api/internal/application/ranking"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/redis"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	CategoryUC   *usecase.CategoryUseCase
	BrandUC      *usecase.BrandUseCase
	ProductUC    *usecase.ProductUseCase
	VariantUC    *usecase.VariantUseCase
	LedgerUC     *inventory.LedgerUseCase
	MarketUC     *usecase.MarketPlaceUseCase
	ListingUC    *usecase.ListingUseCase
	RankingUC    *ranking.UseCase
	MediaUC      *media.UseCase
	MediaBatches *media.BatchService
	JWTSecret    string
	LoginLimit   int
	Idempotency  redis.IdempotencyStore // nil = sin idempotencia
	RateLimiter  redis.RateLimiter      // nil = limiter en memoria
	ProfileCache ProfileCache           // nil = sin caché
	Health       func(ctx context.Context) error
	Metrics      nethttp.Handler // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	writers := RequireRole(RoleAdmin, RoleEditor)
	admins := RequireRole(RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.ProfileCache)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", LoginRateLimit(deps.RateLimiter, deps.LoginLimit), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	users := protected.Group("/users")
	users.Get("/me", authHandler.Me)
	users.Get("/", admins, authHandler.ListUsers)
	users.Post("/", admins, authHandler.CreateUser)

	// Catálogo
	catalog := NewCatalogHandler(deps.CategoryUC, deps.BrandUC, deps.ProductUC, deps.VariantUC)

	categories := protected.Group("/categories")
	categories.Get("/", catalog.ListCategories)
	categories.Post("/", writers, catalog.CreateCategory)
	categories.Get("/:id", catalog.GetCategory)
	categories.Put("/:id", writers, catalog.UpdateCategory)
	categories.Delete("/:id", admins, catalog.DeleteCategory)

	brands := protected.Group("/brands")
	brands.Get("/", catalog.ListBrands)
	brands.Post("/", writers, catalog.CreateBrand)
	brands.Get("/:id", catalog.GetBrand)
	brands.Put("/:id", writers, catalog.UpdateBrand)
	brands.Delete("/:id", admins, catalog.DeleteBrand)

	products := protected.Group("/products")
	products.Get("/", catalog.ListProducts)
	products.Post("/", writers, catalog.CreateProduct)
	products.Get("/:id", catalog.GetProduct)
	products.Put("/:id", writers, catalog.UpdateProduct)
	products.Delete("/:id", admins, catalog.DeleteProduct)

	variants := protected.Group("/variants")
	variants.Get("/", catalog.ListVariants)
	variants.Post("/", writers, catalog.CreateVariant)
	variants.Get("/:id", catalog.GetVariant)
	variants.Put("/:id", writers, catalog.UpdateVariant)
	variants.Delete("/:id", admins, catalog.DeleteVariant)

	// Inventario
	inv := NewInventoryHandler(deps.LedgerUC)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", writers, Idempotency(deps.Idempotency), inv.RecordMovement)
	invGroup.Get("/movements", inv.ListMovements)
	invGroup.Get("/movements/:id", inv.GetMovement)
	invGroup.Delete("/movements/:id", admins, inv.VoidMovement)
	invGroup.Post("/movements/:id/corrections", writers, inv.CorrectMovement)
	invGroup.Get("/stock/:variantId", inv.CurrentStock)
	invGroup.Get("/stock/:variantId/reconcile", inv.Reconcile)
	invGroup.Post("/stock/:variantId/reconcile", admins, inv.RepairStock)

	// Marketplaces y publicaciones
	mkt := NewMarketplaceHandler(deps.MarketUC, deps.ListingUC)

	markets := protected.Group("/markets")
	markets.Get("/", mkt.ListMarkets)
	markets.Post("/", writers, mkt.CreateMarket)
	markets.Get("/:id", mkt.GetMarket)
	markets.Put("/:id", writers, mkt.UpdateMarket)
	markets.Delete("/:id", admins, mkt.DeleteMarket)

	listings := protected.Group("/listings")
	listings.Get("/", mkt.ListListings)
	listings.Post("/", writers, mkt.CreateListing)
	listings.Get("/:id", mkt.GetListing)
	listings.Put("/:id", writers, mkt.UpdateListing)
	listings.Delete("/:id", writers, mkt.DeleteListing)

	// Rankings
	rk := NewRankingHandler(deps.RankingUC)
	rankings := protected.Group("/rankings")
	rankings.Get("/", rk.List)
	rankings.Get("/today/:category", rk.Today)
	rankings.Post("/scrape/:category", writers, rk.Scrape)
	rankings.Get("/:id", rk.Get)
	rankings.Get("/:id/report", rk.Report)
	rankings.Delete("/:id", admins, rk.Delete)

	// Media
	md := NewMediaHandler(deps.MediaUC, deps.MediaBatches)
	mediaGroup := protected.Group("/media")
	mediaGroup.Get("/", md.List)
	mediaGroup.Post("/", writers, md.Upload)
	mediaGroup.Delete("/:id", writers, md.Delete)
	mediaGroup.Post("/batches", writers, md.CreateBatch)
	mediaGroup.Get("/batches/:id", md.GetBatch)
	mediaGroup.Post("/batches/:id/retry/:index", writers, md.RetryBatchFile)
}
