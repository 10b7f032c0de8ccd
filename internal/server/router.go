// Package server assembles the HTTP API from the ledger services.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "troskovi/internal/docs" // swagger docs
	"troskovi/internal/handlers"
	"troskovi/internal/middleware"
	"troskovi/internal/services"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Persons    services.PersonServicer
	Categories services.CategoryServicer
	Ledger     services.LedgerServicer
	Reports    services.ReportServicer
	Snapshots  services.SnapshotServicer
	Events     services.EventServicer
	Exports    services.ExportServicer
}

// Options tunes the router.
type Options struct {
	PipelineAPIKey string
	Swagger        bool
}

// NewRouter wires every route under /api.
func NewRouter(svc Services, opts Options) *gin.Engine {
	personHandler := handlers.NewPersonHandler(svc.Persons, svc.Reports)
	ledgerHandler := handlers.NewLedgerHandler(svc.Ledger)
	reportHandler := handlers.NewReportHandler(svc.Reports, svc.Exports)
	historyHandler := handlers.NewHistoryHandler(svc.Snapshots, svc.Events)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	pipelineHandler := handlers.NewPipelineHandler(svc.Snapshots)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	persons := v1.Group("/persons")
	persons.POST("", personHandler.CreatePerson)
	persons.GET("", personHandler.ListPersons)
	persons.GET("/:id", personHandler.GetPerson)
	persons.PUT("/:id", personHandler.UpdatePerson)
	persons.DELETE("/:id", personHandler.DeletePerson)
	persons.GET("/:id/months", personHandler.ListMonths)
	persons.GET("/:id/history", historyHandler.ListSnapshots)
	persons.GET("/:id/history/:month", historyHandler.GetSnapshot)
	persons.GET("/:id/events", historyHandler.ListEvents)

	month := persons.Group("/:id/months/:month")
	month.GET("/incomes", ledgerHandler.ListIncomes)
	month.POST("/incomes", ledgerHandler.AddIncome)
	month.GET("/expenses", ledgerHandler.ListExpenses)
	month.POST("/expenses", ledgerHandler.AddExpense)
	month.GET("/report", reportHandler.GetReport)
	month.GET("/export/:format", reportHandler.Export)

	v1.DELETE("/incomes/:id", ledgerHandler.DeleteIncome)
	v1.DELETE("/expenses/:id", ledgerHandler.DeleteExpense)

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.POST("/snapshots", pipelineHandler.RebuildSnapshots)

	return router
}
