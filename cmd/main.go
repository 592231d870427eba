package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/ardelis/equipsense-backend/internal/db"
	"github.com/ardelis/equipsense-backend/internal/handlers"
	"github.com/ardelis/equipsense-backend/internal/middleware"
	"github.com/ardelis/equipsense-backend/internal/platform/envutil"
	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/repos"
	"github.com/ardelis/equipsense-backend/internal/server"
	"github.com/ardelis/equipsense-backend/internal/services"
)

func main() {
	// Logger
	log, err := logger.New(envutil.Str("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	port := envutil.Str("PORT", "8080")
	summaryTTL := time.Duration(envutil.Int("SUMMARY_TTL_SECONDS", 300)) * time.Second
	if envutil.Bool("GIN_RELEASE_MODE", false) {
		gin.SetMode(gin.ReleaseMode)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	equipmentTypeRepo := repos.NewEquipmentTypeRepo(thePG, log)
	equipmentRepo := repos.NewEquipmentRepo(thePG, log)
	classificationLogRepo := repos.NewClassificationLogRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	typeService, err := services.NewEquipmentTypeService(thePG, log, equipmentTypeRepo, summaryTTL)
	if err != nil {
		log.Error("Could not init EquipmentTypeService", "error", err)
		os.Exit(1)
	}
	if err := typeService.LoadTree(context.Background()); err != nil {
		log.Error("Could not load equipment type tree", "error", err)
		os.Exit(1)
	}
	equipmentService := services.NewEquipmentService(thePG, log, equipmentRepo, typeService)

	var classificationService services.ClassificationService
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		// Classification is an optional enhancement over manual selection;
		// the server still runs without a classifier.
		log.Warn("Classifier disabled", "error", err)
		classificationService = services.NewUnavailableClassificationService()
	} else {
		classificationService = services.NewClassificationService(thePG, log, openaiClient, typeService, classificationLogRepo)
	}

	// Router
	router := server.NewRouter(server.RouterConfig{
		RequestLog:            middleware.NewRequestLogMiddleware(log),
		EquipmentHandler:      handlers.NewEquipmentHandler(equipmentService),
		EquipmentTypeHandler:  handlers.NewEquipmentTypeHandler(typeService),
		ClassificationHandler: handlers.NewClassificationHandler(classificationService),
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
