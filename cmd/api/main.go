package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           FinTrack API
// @version         1.0
// @description     FinTrack is a personal finance tracker covering accounts, transactions, budgets, goals, debts, savings, recurring transactions, and tax deductions.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	notificationService := services.NewNotificationService(db)
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService, notificationService)
	categoryService := services.NewCategoryService(db)
	goalService := services.NewGoalService(db, transactionService)
	debtService := services.NewDebtService(db)
	savingsService := services.NewSavingsService(db)
	recurringService := services.NewRecurringService(db, accountService, notificationService)
	taxService := services.NewTaxService(db)
	analyticsService := services.NewAnalyticsService(db, accountService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, analyticsService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	goalHandler := handlers.NewGoalHandler(goalService)
	debtHandler := handlers.NewDebtHandler(debtService)
	savingsHandler := handlers.NewSavingsHandler(savingsService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)
	taxHandler := handlers.NewTaxHandler(taxService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Background batch for due recurring rules
	go runRecurringBatch(recurringService, appConfig.RecurringInterval)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/balance-history", accountHandler.GetBalanceHistory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget category routes
	budgets := protected.Group("/budgets")
	budgets.POST("/categories", categoryHandler.CreateCategory)
	budgets.GET("/categories", categoryHandler.GetUserCategories)
	budgets.PUT("/categories/:id", categoryHandler.UpdateCategory)
	budgets.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)
	goals.GET("/:id/analytics", goalHandler.GetGoalAnalytics)

	// Debt routes
	debts := protected.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.GetUserDebts)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)
	debts.GET("/payoff-plan", debtHandler.GetPayoffPlan)

	// Savings pot routes
	savings := protected.Group("/savings")
	savings.POST("", savingsHandler.CreatePot)
	savings.GET("", savingsHandler.GetUserPots)
	savings.PUT("/:id", savingsHandler.UpdatePot)
	savings.DELETE("/:id", savingsHandler.DeletePot)

	// Recurring rule routes
	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRule)
	recurring.GET("", recurringHandler.GetUserRules)
	recurring.GET("/upcoming", recurringHandler.GetUpcoming)
	recurring.GET("/overdue", recurringHandler.GetOverdue)
	recurring.POST("/process-due", recurringHandler.ProcessDue)
	recurring.PUT("/:id", recurringHandler.UpdateRule)
	recurring.DELETE("/:id", recurringHandler.DeleteRule)
	recurring.POST("/:id/execute", recurringHandler.ExecuteRule)

	// Tax deduction routes
	taxes := protected.Group("/taxes")
	taxes.POST("/deductions", taxHandler.CreateDeduction)
	taxes.GET("/deductions", taxHandler.GetYearDeductions)
	taxes.PUT("/deductions/:id", taxHandler.UpdateDeduction)
	taxes.DELETE("/deductions/:id", taxHandler.DeleteDeduction)

	// Analytics routes
	analytics := protected.Group("/analytics")
	analytics.GET("/dashboard", analyticsHandler.GetDashboard)
	analytics.GET("/insights", analyticsHandler.GetInsights)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetUserNotifications)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	log.Infof("Starting FinTrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// runRecurringBatch materializes due recurring rules on a fixed interval.
// Each pass logs its outcome; a failed rule never stops the batch or the
// ticker.
func runRecurringBatch(recurringService services.RecurringServicer, interval time.Duration) {
	log := logger.Get()
	log.Infow("starting recurring transaction batch", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for now := range ticker.C {
		results := recurringService.RunDueRules(now)
		executed := 0
		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			} else {
				executed++
			}
		}
		log.Infow("recurring batch completed", "executed", executed, "failed", failed)
	}
}
