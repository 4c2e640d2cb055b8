package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gradelens/adapters/llm"
	"gradelens/ai"
	"gradelens/app"
	"gradelens/internal/analysis/narrative"
	"gradelens/internal/api"
	"gradelens/internal/config"
	"gradelens/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	var collectors *metrics.Collectors
	var observer app.EngineObserver
	if appConfig.Metrics.Enabled {
		collectors = metrics.New()
		observer = collectors
	}

	service := app.NewAnalyticsService(narrative.Templates{}, observer)

	aiCfg := appConfig.AI
	summarizer := ai.NewOpenAIParentSummarizer(
		ai.Options{
			Enabled:   aiCfg.Enabled,
			Provider:  aiCfg.Provider,
			Model:     aiCfg.Model,
			Timeout:   aiCfg.Timeout,
			MaxTokens: aiCfg.MaxTokens,
		},
		llm.Config{
			Model:       aiCfg.Model,
			APIKey:      aiCfg.APIKey,
			BaseURL:     aiCfg.BaseURL,
			Temperature: aiCfg.Temperature,
			MaxTokens:   aiCfg.MaxTokens,
			Timeout:     aiCfg.Timeout,
			JSONMode:    true,
		},
	)
	if aiCfg.Enabled && aiCfg.APIKey == "" {
		log.Printf("⚠️  AI_ENABLED is set but OPENAI_API_KEY is empty; parent summaries will use templates")
	}

	server := api.NewServer(api.Options{
		PassMark:           appConfig.Analysis.PassMark,
		TreatMissingAsZero: appConfig.Analysis.TreatMissingAsZero,
		SchoolName:         appConfig.Analysis.SchoolName,
		MaxUploadMB:        appConfig.Server.MaxUploadMB,
		MetricsPath:        appConfig.Metrics.Path,
	}, service, summarizer, collectors)

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Starting GradeLens server on port %s (pass mark %g%%)", appConfig.Server.Port, appConfig.Analysis.PassMark)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
}
