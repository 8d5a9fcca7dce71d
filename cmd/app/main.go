package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"ArdenGolang/internal/config"
	"ArdenGolang/pkg/log"
	"ArdenGolang/pkg/redis"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		if os.Getenv("APP_ENV") == "production" {
			logger.Fatalf("Error loading .env file: %v", err)
		}
		logger.Warnf("No .env file loaded: %v", err)
	}

	validator := config.NewValidator()
	assistantConfig, err := config.LoadAssistantConfig(validator)
	if err != nil {
		logger.Fatal(err)
	}

	var redisServer redis.IRedis
	if os.Getenv("REDIS_ADDRESS") != "" {
		redisServer = redis.New()
	}

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithAssistantConfig(assistantConfig),
		config.WithGenerator(),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
}
