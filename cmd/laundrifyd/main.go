package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"laundrify-backend/config"
	"laundrify-backend/internal/api"
	"laundrify-backend/internal/chat"
	"laundrify-backend/internal/db"
	"laundrify-backend/internal/laundry"
	"laundrify-backend/internal/logging"
	"laundrify-backend/internal/notification"
	"laundrify-backend/internal/snapshot"
	"laundrify-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config %s: %v", configPath, err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatal("vapid keys are not configured")
	}
	pushOptions := &webpush.Options{
		Subscriber:      cfg.Push.Subject,
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	st := store.NewGormStore(gormDB, logger)

	floorIDs := make([]int, 0, cfg.Floors.Count)
	for id := 1; id <= cfg.Floors.Count; id++ {
		floorIDs = append(floorIDs, id)
	}
	if err := st.SeedFloors(context.Background(), floorIDs); err != nil {
		logger.Fatal("failed to seed floors", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := notification.NewDispatcher(cfg.WorkerPool.Size, st, pushOptions, logger)
	dispatcher.Start(ctx)

	floors := laundry.BuildFloors(cfg.Floors.Count, cfg.Floors.WashersPerFloor, cfg.Floors.DryersPerFloor)
	engine := laundry.NewEngine(floors, dispatcher, logger)

	if cfg.Snapshot.BrokerURL == "" {
		logger.Warn("snapshot broker url is empty, sensor feed disabled")
	} else {
		source := snapshot.NewMQTTSource(&cfg.Snapshot, logger)
		if err := source.Subscribe(engine.HandleSnapshot); err != nil {
			logger.Fatal("failed to subscribe to snapshot feed", zap.Error(err))
		}
		defer source.Close()
	}

	llm := chat.NewClient(&cfg.LLM, os.Getenv("OPENAI_API_KEY"))
	orchestrator := chat.NewOrchestrator(llm, logger)

	handler := api.NewHandler(st, engine, orchestrator, pushOptions, logger)
	router := api.NewRouter(handler, &cfg.Server)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
