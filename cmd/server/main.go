// @title           AppForge Backend API
// @version         1.0.0
// @description     Backend API for generating, refining and deploying AI-built web applications. Generation is metered against a per-user credit balance and progress is broadcast via Supabase Realtime.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"appforge-backend/docs"
	"appforge-backend/internal/ai"
	"appforge-backend/internal/codegen"
	"appforge-backend/internal/config"
	"appforge-backend/internal/database"
	"appforge-backend/internal/handlers"
	"appforge-backend/internal/lock"
	"appforge-backend/internal/logger"
	"appforge-backend/internal/middleware"
	"appforge-backend/internal/scope"
	"appforge-backend/internal/services"
	"appforge-backend/internal/supabase"
	"appforge-backend/internal/tracing"
	"appforge-backend/internal/vercel"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Update Swagger docs with dynamic base URL
	if baseURL, err := url.Parse(cfg.BaseURL); err == nil && baseURL.Host != "" {
		docs.SwaggerInfo.Host = baseURL.Host
		if baseURL.Scheme == "https" {
			docs.SwaggerInfo.Schemes = []string{"https", "http"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}
	}

	shutdownTracing, err := tracing.Init(ctx, cfg, appLog)
	if err != nil {
		appLog.Warn("tracing disabled", "error", err)
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("failed to initialize migrator", "error", err)
	}
	if err := migrator.Run(ctx); err != nil {
		appLog.Fatal("migration failed", "error", err)
	}
	migrator.Close()

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("failed to initialize database client", "error", err)
	}
	defer dbClient.Close()

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		appLog.Fatal("failed to initialize supabase client", "error", err)
	}
	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseStorageBucket)
	if err != nil {
		appLog.Fatal("failed to initialize storage client", "error", err)
	}

	// Builds are serialized per project; Redis makes that hold across replicas.
	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		redisLocker, err := lock.NewRedisLocker(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			appLog.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer redisLocker.Close()
		locker = redisLocker
	} else {
		appLog.Warn("REDIS_ADDR not set, using in-process build lock")
	}

	prompts, err := ai.LoadPrompts()
	if err != nil {
		appLog.Fatal("failed to load prompts", "error", err)
	}
	runner := ai.NewRunner(appLog, cfg.LLMTimeout)

	scopeGenerator := scope.NewGenerator(
		ai.NewAnthropicProvider(cfg.AnthropicAPIBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel),
		ai.NewOpenAIProvider(cfg.OpenAIAPIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel),
		prompts, runner, appLog,
	)
	codeGenerator := codegen.NewGenerator(
		ai.NewAnthropicProvider(cfg.AnthropicAPIBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicCodeModel),
		ai.NewOpenAIProvider(cfg.OpenAIAPIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAICodeModel),
		prompts, runner, appLog,
	)

	deployer := vercel.NewDeployer(
		vercel.NewClient(cfg.VercelAPIBaseURL, cfg.VercelToken, cfg.VercelTeamID),
		appLog,
		vercel.WithPolling(cfg.DeployPollInterval, cfg.DeployPollMaxAttempts),
	)
	if !cfg.VercelConfigured() {
		appLog.Warn("VERCEL_TOKEN not set, deployment and domain endpoints will fail")
	}

	archiveService := services.NewArchiveService(storageClient, appLog)
	projectService := services.NewProjectService(dbClient, archiveService, appLog)
	ledger := services.NewLedger(dbClient, codeGenerator, locker, realtimeClient, archiveService, services.LedgerConfig{
		GenerateCredits: cfg.CodeGenerationCredits,
		RefineCredits:   cfg.ChatRefinementCredits,
	}, appLog)
	deployService := services.NewDeployService(dbClient, deployer, realtimeClient, appLog)
	domainService := services.NewDomainService(dbClient, deployer, realtimeClient, appLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(tracing.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLog))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	handlers.RegisterRoutes(api, handlers.Handlers{
		Scope:    handlers.NewScopeHandler(scopeGenerator, appLog),
		Projects: handlers.NewProjectsHandler(projectService, appLog),
		Builds:   handlers.NewBuildsHandler(ledger, appLog),
		Deploy:   handlers.NewDeployHandler(deployService, appLog),
		Domains:  handlers.NewDomainsHandler(domainService, appLog),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLog.Warn("failed to flush traces", "error", err)
		}
	}
}
