package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/repository/postgres"
	postgresDocsys "inkwell/internal/repository/postgres/docsystem"
	postgresVCS "inkwell/internal/repository/postgres/vcs"
	serviceAuth "inkwell/internal/service/auth"
	serviceDocsys "inkwell/internal/service/docsystem"
	serviceVCS "inkwell/internal/service/vcs"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Apply schema migrations
	if err := postgres.ApplyMigrations(ctx, pool, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgresDocsys.NewDocumentRepository(repoConfig)
	branchRepo := postgresVCS.NewBranchRepository(repoConfig)
	versionRepo := postgresVCS.NewVersionRepository(repoConfig)
	mergeRepo := postgresVCS.NewMergeRepository(repoConfig)
	requestRepo := postgresVCS.NewBranchRequestRepository(repoConfig)
	changeRepo := postgresVCS.NewPendingChangeRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(docRepo)
	docService := serviceDocsys.NewDocumentService(docRepo, logger)
	branchService := serviceVCS.NewBranchService(branchRepo, authorizer, logger)
	versionService := serviceVCS.NewVersionService(versionRepo, branchRepo, txManager, authorizer, logger)
	mergeService := serviceVCS.NewMergeService(mergeRepo, versionRepo, branchRepo, txManager, authorizer, logger)
	requestService := serviceVCS.NewBranchRequestService(requestRepo, authorizer, logger)
	changeService := serviceVCS.NewPendingChangeService(changeRepo, docRepo, branchRepo, versionRepo, txManager, authorizer, logger)

	// Create handlers
	healthHandler := handler.NewHealthHandler(pool)
	docHandler := handler.NewDocumentHandler(docService, logger)
	branchHandler := handler.NewBranchHandler(branchService, logger)
	versionHandler := handler.NewVersionHandler(versionService, logger)
	mergeHandler := handler.NewMergeHandler(mergeService, logger)
	requestHandler := handler.NewBranchRequestHandler(requestService, logger)
	changeHandler := handler.NewPendingChangeHandler(changeService, logger)

	// Create fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", healthHandler.Health)

	api := app.Group("/api", middleware.RequireAuth(jwtVerifier, logger))

	api.Post("/documents", docHandler.CreateDocument)
	api.Post("/documents/push", changeHandler.PushLocalChanges)
	api.Get("/documents/:id", docHandler.GetDocument)

	api.Post("/branches", branchHandler.CreateBranch)
	api.Get("/branches", branchHandler.ListBranches)
	api.Get("/branches/:id", branchHandler.GetBranch)
	api.Delete("/branches/:id", branchHandler.DeactivateBranch)
	api.Post("/branches/:id/versions", versionHandler.CommitVersion)
	api.Get("/branches/:id/versions", versionHandler.ListVersions)

	api.Post("/merges", mergeHandler.Merge)

	api.Post("/branch-requests", requestHandler.CreateBranchRequest)
	api.Get("/branch-requests", requestHandler.ListBranchRequests)
	api.Post("/branch-requests/:id/resolve", requestHandler.ResolveBranchRequest)

	api.Post("/pending-changes", changeHandler.CreatePendingChange)
	api.Get("/pending-changes", changeHandler.ListPendingChanges)
	api.Post("/pending-changes/:id/accept", changeHandler.AcceptPendingChange)
	api.Post("/pending-changes/:id/reject", changeHandler.RejectPendingChange)

	// Graceful shutdown on SIGINT/SIGTERM
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
