// Package server assembles the HTTP API: services, handlers, middleware and
// routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "cashbook/internal/docs" // swagger spec
	"cashbook/internal/handlers"
	"cashbook/internal/identity"
	"cashbook/internal/middleware"
	"cashbook/internal/services"
	"cashbook/internal/validator"
)

// Deps are the collaborators the router needs.
type Deps struct {
	DB          *gorm.DB
	Identity    identity.Provider
	AuthTimeout time.Duration
	// Schema validates transaction submissions. Defaults to a schema on the
	// wall clock.
	Schema *validator.Schema
}

// NewRouter wires the API. Everything under /api/v1 runs behind the route
// guard; health and swagger are public.
func NewRouter(d Deps) *gin.Engine {
	validator.RegisterBinding()

	schema := d.Schema
	if schema == nil {
		schema = validator.NewSchema()
	}

	auditService := services.NewAuditService(d.DB)
	categoryService := services.NewCategoryService(d.DB)
	transactionService := services.NewTransactionService(d.DB, auditService)

	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, schema)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Guard(d.Identity, d.AuthTimeout))

	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)

	return router
}
