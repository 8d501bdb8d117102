// Package router assembles the HTTP engine: middleware, services and routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"quincena/internal/config"
	_ "quincena/internal/docs" // registers the OpenAPI document
	"quincena/internal/handlers"
	"quincena/internal/metrics"
	"quincena/internal/middleware"
	"quincena/internal/services"
)

// New builds the API engine over db. rates serves the exchange-rate proxy.
func New(db *gorm.DB, cfg *config.Config, rates handlers.RateFetcher) *gin.Engine {
	m := metrics.New()

	// Services
	userService := services.NewUserService(db)
	settingsService := services.NewSettingsService(db)
	expenseService := services.NewExpenseService(db)
	salaryService := services.NewSalaryService(db)
	salarySettingsService := services.NewSalarySettingsService(db)
	salaryRecordService := services.NewSalaryRecordService(db)
	stockPeriodService := services.NewStockPeriodService(db)
	templateService := services.NewTemplateService(db)
	templateGroupService := services.NewTemplateGroupService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	salaryHandler := handlers.NewSalaryHandler(salaryService, auditService)
	salarySettingsHandler := handlers.NewSalarySettingsHandler(salarySettingsService, auditService)
	salaryRecordHandler := handlers.NewSalaryRecordHandler(salaryRecordService, auditService)
	stockPeriodHandler := handlers.NewStockPeriodHandler(stockPeriodService, auditService)
	templateHandler := handlers.NewTemplateHandler(templateService, auditService)
	templateGroupHandler := handlers.NewTemplateGroupHandler(templateGroupService, auditService)
	exchangeHandler := handlers.NewExchangeHandler(rates, m)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(m.Middleware())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus scrape endpoint
	router.GET("/metrics", middleware.MetricsAuthMiddleware(cfg.MetricsAPIKey), gin.WrapH(m.Handler()))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Exchange-rate proxy. Registered for every method so non-GET requests
	// get the endpoint's own 405 body.
	router.Any("/api/exchange-rate", exchangeHandler.GetRate)

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.GET("/period", settingsHandler.ResolvePeriod)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/summary", expenseHandler.GetExpenseSummary)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.PATCH("/:id/paid", expenseHandler.SetExpensePaid)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	salaries := protected.Group("/salaries")
	salaries.PUT("", salaryHandler.UpsertSalary)
	salaries.GET("", salaryHandler.GetSalaries)
	salaries.GET("/aguinaldo/:year", salaryHandler.GetAguinaldo)
	salaries.GET("/:id", salaryHandler.GetSalary)
	salaries.PUT("/:id", salaryHandler.UpdateSalary)
	salaries.DELETE("/:id", salaryHandler.DeleteSalary)

	salarySettings := protected.Group("/salary-settings")
	salarySettings.GET("", salarySettingsHandler.GetSalarySettings)
	salarySettings.PUT("", salarySettingsHandler.UpsertSalarySettings)
	salarySettings.DELETE("", salarySettingsHandler.DeleteSalarySettings)

	salaryRecords := protected.Group("/salary-records")
	salaryRecords.POST("", salaryRecordHandler.CreateSalaryRecord)
	salaryRecords.GET("", salaryRecordHandler.GetSalaryRecords)
	salaryRecords.GET("/aguinaldo/:year", salaryRecordHandler.GetAguinaldo)
	salaryRecords.GET("/:id", salaryRecordHandler.GetSalaryRecord)
	salaryRecords.PUT("/:id", salaryRecordHandler.UpdateSalaryRecord)
	salaryRecords.DELETE("/:id", salaryRecordHandler.DeleteSalaryRecord)

	stockPeriods := protected.Group("/stock-periods")
	stockPeriods.POST("", stockPeriodHandler.CreateStockPeriod)
	stockPeriods.GET("", stockPeriodHandler.GetStockPeriods)
	stockPeriods.GET("/:id", stockPeriodHandler.GetStockPeriod)
	stockPeriods.PUT("/:id", stockPeriodHandler.UpdateStockPeriod)
	stockPeriods.DELETE("/:id", stockPeriodHandler.DeleteStockPeriod)

	templates := protected.Group("/templates")
	templates.POST("", templateHandler.CreateTemplate)
	templates.GET("", templateHandler.GetTemplates)
	templates.GET("/:id", templateHandler.GetTemplate)
	templates.PUT("/:id", templateHandler.UpdateTemplate)
	templates.DELETE("/:id", templateHandler.DeleteTemplate)

	templateGroups := protected.Group("/template-groups")
	templateGroups.POST("", templateGroupHandler.CreateTemplateGroup)
	templateGroups.GET("", templateGroupHandler.GetTemplateGroups)
	templateGroups.GET("/:id", templateGroupHandler.GetTemplateGroup)
	templateGroups.PUT("/:id", templateGroupHandler.UpdateTemplateGroup)
	templateGroups.DELETE("/:id", templateGroupHandler.DeleteTemplateGroup)
	templateGroups.POST("/:id/apply", templateGroupHandler.ApplyTemplateGroup)

	return router
}
