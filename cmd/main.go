package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monitoring-service/internal/api"
	"monitoring-service/internal/assets"
	"monitoring-service/internal/config"
	"monitoring-service/internal/decision"
	"monitoring-service/internal/ingest"
	"monitoring-service/internal/logging"
	"monitoring-service/internal/notify"
	"monitoring-service/internal/oracle"
	"monitoring-service/internal/predict"
	"monitoring-service/internal/registry"
	"monitoring-service/internal/routing"
	"monitoring-service/internal/store"
	"monitoring-service/internal/utils"
	"monitoring-service/internal/workflow"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Load site/asset/technician registry
	sites, err := config.LoadRegistry(cfg.Monitor.SitesFile)
	if err != nil {
		logger.Errorf("Failed to load site registry: %v", err)
		log.Fatalf("Site registry load failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Select store backend: Postgres, SQLite, or in-memory
	var st store.Store
	switch {
	case cfg.DB.DSN != "":
		err = utils.Retry(logger, 5, 3*time.Second, func() error {
			var connErr error
			st, connErr = store.NewPostgres(ctx, cfg.DB.DSN)
			return connErr
		})
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		logger.Infof("Using Postgres store")
	case cfg.DB.Path != "":
		st, err = store.NewSQLite(cfg.DB.Path)
		if err != nil {
			log.Fatalf("SQLite open failed: %v", err)
		}
		logger.Infof("Using SQLite store at %s", cfg.DB.Path)
	default:
		st = store.NewMemory()
		logger.Warnf("No DB_DSN or DB_PATH configured, using in-memory store")
	}
	defer st.Close()

	// Technician registry and assignment engine
	reg := registry.Seed(sites.Technicians)
	engine := routing.NewEngine(reg, logger)

	// Reasoning oracle (optional)
	var reasoner oracle.Oracle
	if cfg.Oracle.URL != "" {
		reasoner = oracle.NewClient(cfg.Oracle.URL, cfg.Oracle.APIKey, cfg.Oracle.Model,
			time.Duration(cfg.Oracle.TimeoutSec)*time.Second)
		logger.Infof("Reasoning oracle configured at %s", cfg.Oracle.URL)
	} else {
		logger.Warnf("No oracle configured, decisions will use defaults")
	}
	decider := decision.New(reasoner, logger)

	// Notification hub and service
	hub := notify.NewHub(logger)
	notifier := notify.NewService(st, hub, logger)

	// Orchestrator
	cache := assets.NewCache()
	orch := workflow.New(sites, st,
		predict.SimulatedRisk{}, predict.SimulatedDemand{},
		decider, engine, notifier, cache, logger, cfg.Monitor.HorizonHours)

	// Sensor ingestion (optional)
	var consumer *ingest.Consumer
	if cfg.Kafka.Broker != "" && cfg.Kafka.Topic != "" {
		consumer = ingest.NewConsumer(cfg.Kafka.Broker, cfg.Kafka.Topic, cfg.Kafka.GroupID, cache, orch, logger)
		go consumer.Start(ctx)
		logger.Infof("Sensor consumer started on topic %s", cfg.Kafka.Topic)
	} else {
		logger.Warnf("No Kafka broker configured, sensor ingestion disabled")
	}

	// API server
	handler := api.NewHandler(st, orch, reg, hub, cache, logger)
	router := api.NewRouter(handler, logger, cfg)
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Errorf("Consumer close failed: %v", err)
		}
	}
	logger.Infof("Service stopped")
}
