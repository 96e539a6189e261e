package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gazecenter/internal"
	"gazecenter/internal/api"
	"gazecenter/internal/config"
	"gazecenter/internal/container"
	"gazecenter/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx, true); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	apiServer := api.NewServer(appContainer.Service, appContainer.SSEHub, api.Config{
		DefaultRadiusDeg: appConfig.Analysis.DefaultRadiusDeg,
		UploadMaxBytes:   appConfig.Server.UploadMaxBytes,
	})

	dashboard, err := ui.NewApp(appContainer.Service, apiServer.Handler(), ui.Config{
		DefaultRadiusDeg: appConfig.Analysis.DefaultRadiusDeg,
		UploadMaxBytes:   appConfig.Server.UploadMaxBytes,
	})
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	if err := dashboard.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
