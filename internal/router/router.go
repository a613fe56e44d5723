package router

import (
	"foboh/internal/config"
	"foboh/internal/handler"
	"foboh/internal/infra"
	"foboh/internal/middleware"
	"foboh/internal/repository"
	"foboh/internal/service"
	"foboh/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps are the collaborators built by the composition root. Products and
// Profiles are required; the rest may be nil and the matching feature is
// then disabled.
type Deps struct {
	Products repository.ProductRepository
	Profiles repository.ProfileRepository

	DB          *gorm.DB
	Redis       *redis.Client
	Events      infra.EventPublisher
	Dispatcher  *worker.Dispatcher
	MailBreaker *infra.Breaker

	// Limiter throttles the whole API per client IP. Built from config when nil.
	Limiter *middleware.IPRateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Middleware())

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	productSvc := service.NewProductService(deps.Products)
	pricingSvc := service.NewPricingService(deps.Products, deps.Profiles, deps.Events, deps.Dispatcher)
	profileSvc := service.NewProfileService(deps.Profiles, deps.Products, deps.Events)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc, profileSvc)
	pricingH := handler.NewPricingHandler(pricingSvc)
	profilesH := handler.NewProfilesHandler(pricingSvc, profileSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(handler.HealthDeps{
		DB:          deps.DB,
		Redis:       deps.Redis,
		MailBreaker: deps.MailBreaker,
	}))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter().Middleware(), authH.Login)
	}

	read := middleware.RequireRole(service.RoleMerchandiser, service.RoleViewer)
	write := middleware.RequireRole(service.RoleMerchandiser)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		products := v1.Group("/products", read)
		{
			products.GET("", productsH.List)
			products.GET("/facets", productsH.Facets)
			products.GET("/:id", productsH.Get)
			products.GET("/:id/profile-prices", productsH.ProfilePrices)
		}

		pricing := v1.Group("/pricing")
		{
			pricing.POST("/preview", write, pricingH.Preview)
			pricing.GET("/check/:productId", read, pricingH.Check)
		}

		profiles := v1.Group("/profiles")
		{
			profiles.GET("", read, profilesH.List)
			profiles.POST("", write, profilesH.Create)
			profiles.GET("/:id", read, profilesH.Get)
			profiles.DELETE("/:id", write, profilesH.Delete)
			profiles.GET("/:id/price-sheet", read, profilesH.PriceSheet)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
