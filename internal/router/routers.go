package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/config"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/handler"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/middleware"
)

// Resource names as registered in the query rules.
const (
	ResourceProduct  = "product"
	ResourceCategory = "category"
	ResourceOrder    = "order"
)

type Router struct {
	catalogHandler *handler.CatalogHandler
	rulesHandler   *handler.QueryRulesHandler
	cacheHandler   *handler.CacheHandler
	healthHandler  *handler.HealthHandler

	queryMw *middleware.QueryValidationMiddleware
	Config  *config.Config
}

func NewRouter(
	catalog *handler.CatalogHandler,
	rules *handler.QueryRulesHandler,
	cache *handler.CacheHandler,
	health *handler.HealthHandler,

	queryMw *middleware.QueryValidationMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		catalogHandler: catalog,
		rulesHandler:   rules,
		cacheHandler:   cache,
		healthHandler:  health,

		queryMw: queryMw,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestContext("http", r.Config.App.Timeout))
	router.Use(middleware.ContextValidation())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			r.catalogRoutes(v1)
			r.rulesRoutes(v1)
			r.cacheRoutes(v1)
		}
	}

	return router
}

func (r *Router) catalogRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", r.queryMw.ValidateQuery(ResourceProduct), r.catalogHandler.ListProducts)
	rg.GET("/categories", r.queryMw.ValidateQuery(ResourceCategory), r.catalogHandler.ListCategories)
	rg.GET("/orders", r.queryMw.ValidateQuery(ResourceOrder), r.catalogHandler.ListOrders)
}

func (r *Router) rulesRoutes(rg *gin.RouterGroup) {
	rules := rg.Group("/query-rules")
	{
		rules.GET("", r.rulesHandler.ListRules)
		rules.GET("/:resource", r.rulesHandler.GetRules)
	}
}

// cacheRoutes defines list cache management routes
func (r *Router) cacheRoutes(rg *gin.RouterGroup) {
	cache := rg.Group("/cache")
	{
		cache.DELETE("/:resource", r.cacheHandler.InvalidateCache)
	}
}
