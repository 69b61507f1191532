package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihsaan797/InvoiceME/internal/api/handlers"
	"github.com/ihsaan797/InvoiceME/internal/api/middleware"
	"github.com/ihsaan797/InvoiceME/internal/config"
	"github.com/ihsaan797/InvoiceME/internal/services"
	"github.com/ihsaan797/InvoiceME/internal/storage"
	"github.com/ihsaan797/InvoiceME/internal/suggest"
	"github.com/ihsaan797/InvoiceME/internal/tasks"
)

// SetupRouter configures and returns the main Gin engine. taskClient and
// suggestSvc may be nil; the routes that need them degrade to 503.
func SetupRouter(cfg *config.Config, db *mongo.Database, taskClient tasks.Enqueuer, suggestSvc suggest.ISuggestService) *gin.Engine {
	// Initialize services needed by API handlers
	businessService := services.NewBusinessService(db)
	transactionService := services.NewTransactionService(db)
	documentService := services.NewDocumentService(db, businessService, transactionService)
	clientService := services.NewClientService(db)
	catalogService := services.NewCatalogService(db)
	userService := services.NewUserService(db)

	// Logo storage is optional: without a bucket the API still runs, PDFs
	// just render without a logo.
	var s3StorageService storage.IS3Storage
	if cfg.AwsS3Bucket != "" {
		var err error
		s3StorageService, err = storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
		}
	}

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	authHandler := handlers.NewRestAuthHandler(userService, cfg)
	documentHandler := handlers.NewRestDocumentHandler(documentService, businessService, s3StorageService, taskClient)
	businessHandler := handlers.NewRestBusinessHandler(businessService, s3StorageService)
	transactionHandler := handlers.NewRestTransactionHandler(transactionService)
	clientHandler := handlers.NewRestClientHandler(clientService)
	catalogHandler := handlers.NewRestCatalogHandler(catalogService)
	suggestHandler := handlers.NewRestSuggestHandler(suggestSvc)

	v1 := r.Group("/v1")
	{
		// Public routes (rate limiting already applied globally)
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("/documents", documentHandler.CreateDocument)
			authRequired.GET("/documents", documentHandler.ListDocuments)
			authRequired.GET("/documents/:id", documentHandler.GetDocument)
			authRequired.PUT("/documents/:id", documentHandler.UpdateDocument)
			authRequired.DELETE("/documents/:id", documentHandler.DeleteDocument)
			authRequired.POST("/documents/:id/status", documentHandler.SetStatus)
			authRequired.GET("/documents/:id/pdf", documentHandler.GetPDF)
			authRequired.POST("/documents/:id/email", documentHandler.EmailDocument)

			authRequired.GET("/transactions", transactionHandler.ListTransactions)
			authRequired.POST("/transactions", transactionHandler.CreateTransaction)
			authRequired.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)
			authRequired.GET("/dashboard/summary", transactionHandler.GetSummary)

			authRequired.GET("/business", businessHandler.GetProfile)
			authRequired.PUT("/business", businessHandler.UpdateProfile)
			authRequired.GET("/business/logo", businessHandler.GetLogo)
			authRequired.POST("/business/logo", businessHandler.UploadLogo)
			authRequired.DELETE("/business/logo", businessHandler.DeleteLogo)

			authRequired.GET("/clients", clientHandler.ListClients)
			authRequired.POST("/clients", clientHandler.CreateClient)
			authRequired.POST("/clients/bulk", clientHandler.CreateClients)
			authRequired.PUT("/clients/:id", clientHandler.UpdateClient)
			authRequired.DELETE("/clients/:id", clientHandler.DeleteClient)

			authRequired.GET("/catalog", catalogHandler.ListItems)
			authRequired.POST("/catalog", catalogHandler.CreateItem)
			authRequired.PUT("/catalog/:id", catalogHandler.UpdateItem)
			authRequired.DELETE("/catalog/:id", catalogHandler.DeleteItem)

			authRequired.POST("/suggest/items", suggestHandler.SuggestItems)
			authRequired.POST("/suggest/terms", suggestHandler.SuggestTerms)
		}

		// Admin routes
		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
		{
			adminRequired.POST("/users", authHandler.Register)
			adminRequired.GET("/users", authHandler.ListUsers)
		}
	}

	return r
}
