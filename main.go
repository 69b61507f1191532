package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ihsaan797/InvoiceME/internal/api"
	"github.com/ihsaan797/InvoiceME/internal/cache"
	"github.com/ihsaan797/InvoiceME/internal/config"
	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/email"
	"github.com/ihsaan797/InvoiceME/internal/services"
	"github.com/ihsaan797/InvoiceME/internal/storage"
	"github.com/ihsaan797/InvoiceME/internal/suggest"
	"github.com/ihsaan797/InvoiceME/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx, mongoDb); err != nil {
		cancelIndexes()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancelIndexes()

	// Initialize Cache (Redis, backing the task queue)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Email sender (falls back to logging when SMTP is not configured)
	emailSender := email.NewSMTPSender(cfg)

	// Optional AI suggestions; nil when no GCP project is configured
	var suggestSvc suggest.ISuggestService
	if svc, err := suggest.NewSuggestService(context.Background(), cfg); err == nil {
		suggestSvc = svc
		defer suggestSvc.Close()
	} else if cfg.GcpProjectID != "" {
		log.Printf("WARNING: Failed to initialize suggestion service: %v. Suggestions disabled.", err)
	}

	// Services needed by the task processor
	businessService := services.NewBusinessService(mongoDb)
	transactionService := services.NewTransactionService(mongoDb)
	documentService := services.NewDocumentService(mongoDb, businessService, transactionService)

	var s3StorageService storage.IS3Storage
	if cfg.AwsS3Bucket != "" {
		s3StorageService, err = storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	}

	// Initialize Task Client
	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()

	// Initialize Task Processor
	taskProcessor := tasks.NewTaskProcessor(cfg, emailSender, documentService, businessService, s3StorageService)

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server
	var scheduler *asynq.Scheduler

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")
		mainApiRouter := api.SetupRouter(cfg, mongoDb, taskClient, suggestSvc)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	bgMode := func() {
		fmt.Println("Starting background worker...")
		srv, mux := tasks.SetupServer(redisClient, taskProcessor)
		backgroundTaskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Background task server starting...")
			if err := backgroundTaskSrv.Run(mux); err != nil {
				log.Fatalf("Background task server error: %v", err)
			}
			fmt.Println("Background task server stopped.")
		}()

		sched, err := tasks.NewScheduler(redisClient, cfg.ExpirySweepInterval)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		scheduler = sched
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Quotation expiry scheduler starting...")
			if err := scheduler.Run(); err != nil {
				log.Fatalf("Scheduler error: %v", err)
			}
			fmt.Println("Scheduler stopped.")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}

	if scheduler != nil {
		fmt.Println("Shutting down scheduler...")
		scheduler.Shutdown()
	}
	if backgroundTaskSrv != nil {
		fmt.Println("Shutting down Background Task server...")
		backgroundTaskSrv.Shutdown()
	}

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
