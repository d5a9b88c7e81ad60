package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"insurance-service/internal/config"
	"insurance-service/internal/database/postgres"
	"insurance-service/internal/database/redis"
	"insurance-service/internal/engine"
	"insurance-service/internal/event"
	"insurance-service/internal/handlers"
	"insurance-service/internal/repository"
	"insurance-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/insurance", "log", "insurance_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Printf("failed to set up file logging, falling back to stderr: %v", err)
	} else {
		defer logFile.Close()
	}

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connecting to database, retrying: %s", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	var cache *redis.Client
	cache, err = redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Printf("error connecting to redis, read caching disabled: %s", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	var publisher *event.LifecyclePublisher
	mq, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connecting to RabbitMQ, lifecycle events disabled: %s", err)
	} else {
		defer mq.Close()
		publisher = event.NewLifecyclePublisher(mq)
	}

	oracleRepo := repository.NewOracleRepository(db)
	obsRepo := repository.NewObservationRepository(db)
	profileRepo := repository.NewRiskProfileRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	condRepo := repository.NewConditionRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	treasuryRepo := repository.NewTreasuryRepository(db)

	eng := engine.New(cfg.AdminID)
	ctx := context.Background()
	if err := services.BootstrapEngine(ctx, eng, oracleRepo, obsRepo, profileRepo, policyRepo, condRepo, claimRepo, treasuryRepo); err != nil {
		log.Fatalf("error restoring engine state: %s", err)
	}

	clock := services.NewBlockClock(cfg.ChainCfg)
	writer := services.NewStateWriter(eng)
	oracleService := services.NewOracleService(eng, writer, oracleRepo, obsRepo, cache, publisher, clock)
	policyService := services.NewPolicyService(eng, writer, policyRepo, profileRepo, condRepo, treasuryRepo, cache, publisher, clock)
	claimService := services.NewClaimService(eng, writer, claimRepo, policyRepo, treasuryRepo, cache, publisher, clock)

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Insurance service is healthy")
	})

	handlers.NewOracleHandler(oracleService).Register(app)
	handlers.NewPolicyHandler(policyService, claimService).Register(app)
	handlers.NewClaimHandler(claimService).Register(app)

	log.Printf("insurance service listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
}
