package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	game "wordbridge/internal/game"
	handlers "wordbridge/internal/handlers"
	provider "wordbridge/internal/provider"
	store "wordbridge/internal/store"
	util "wordbridge/internal/util"
)

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	util.LogInfo("Starting Wordbridge in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	apiKey := os.Getenv("PROVIDER_API_KEY")
	if apiKey == "" {
		util.LogFatal("PROVIDER_API_KEY not configured")
	}

	client := provider.New(provider.Config{
		APIKey:          apiKey,
		BaseURL:         util.GetEnvString("PROVIDER_BASE_URL", provider.DefaultBaseURL),
		GenerationModel: util.GetEnvString("PROVIDER_GENERATION_MODEL", provider.DefaultGenerationModel),
		JudgmentModel:   util.GetEnvString("PROVIDER_JUDGMENT_MODEL", provider.DefaultJudgmentModel),
		Timeout:         util.GetEnvDuration("PROVIDER_TIMEOUT", provider.DefaultTimeout),
	})

	generator := game.NewGenerator(client,
		game.RetryPolicy{MaxAttempts: util.GetEnvInt("GENERATE_MAX_ATTEMPTS", game.DefaultMaxAttempts)},
		util.GetEnvInt("GENERATION_RPS", 0))

	registry := game.NewRegistry(generator, game.Config{
		TargetSize:    util.GetEnvInt("QUEUE_TARGET_SIZE", game.DefaultTargetSize),
		LowWatermark:  util.GetEnvInt("QUEUE_LOW_WATERMARK", game.DefaultLowWatermark),
		SessionTTL:    util.GetEnvDuration("SESSION_TTL", game.DefaultSessionTTL),
		SweepInterval: util.GetEnvDuration("SWEEP_INTERVAL", game.DefaultSweepInterval),
		PuzzleTTL:     util.GetEnvDuration("PUZZLE_TTL", 0),
	})

	srv := &handlers.Server{
		Registry:     registry,
		Answers:      game.NewAnswerValidator(client, util.GetEnvDuration("PROVIDER_TIMEOUT", provider.DefaultTimeout)),
		Generator:    generator,
		Scores:       store.NewMemoryStore(),
		IsProduction: isProduction,
		StartTime:    time.Now(),
	}

	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(noStoreMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		util.LogWarn("Failed to set trusted proxies: %v", err)
	}

	router.POST(RouteStartSession, srv.StartSession)
	router.POST(RouteNextPuzzle, srv.NextPuzzle)
	router.POST(RouteValidate, srv.ValidateAnswer)
	router.POST(RouteReveal, srv.RevealAnswer)
	router.POST(RouteClearSession, srv.ClearSession)
	router.GET(RouteDemo, srv.DemoPuzzle)
	router.POST(RouteSubmitScore, srv.SubmitScore)
	router.GET(RouteHealthz, srv.Healthz)

	registry.Start()

	startServer(router, registry)
}

func startServer(router *gin.Engine, registry *game.Registry) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "9528"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		util.LogInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarn("HTTP server Shutdown: %v", err)
		}
		registry.Shutdown()
		close(idleConnsClosed)
	}()

	util.LogInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		util.LogFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	util.LogInfo("Server shutdown complete")
}
