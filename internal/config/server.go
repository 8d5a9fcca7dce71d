package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"ArdenGolang/database/postgres"
	assistantHandler "ArdenGolang/internal/api/assistant/handler"
	assistantRepository "ArdenGolang/internal/api/assistant/repository"
	assistantService "ArdenGolang/internal/api/assistant/service"
	"ArdenGolang/internal/middleware"
	"ArdenGolang/pkg/generator"
	"ArdenGolang/pkg/redis"
	"ArdenGolang/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	db               *sqlx.DB
	log              *logrus.Logger
	middleware       middleware.Middleware
	validator        *validator.Validate
	utils            utils.IUtils
	handlers         []handler
	redisServer      redis.IRedis
	assistantConfig  *AssistantConfig
	generator        generator.IGenerator
	assistantService assistantService.IAssistantService
	closers          []func()
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.generator == nil {
		return nil, fmt.Errorf("generator is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects to postgres and applies the schema. It is skipped
// when DB_HOST is unset, which disables the command history.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if os.Getenv("DB_HOST") == "" {
			if s.log != nil {
				s.log.Warn("DB_HOST not set, command history disabled")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return err
		}

		s.db = db
		s.closers = append(s.closers, func() { db.Close() })
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		if redisServer != nil {
			s.closers = append(s.closers, func() { _ = redisServer.Close() })
		}
		return nil
	}
}

func WithAssistantConfig(cfg *AssistantConfig) ServerOption {
	return func(s *Server) error {
		s.assistantConfig = cfg
		return nil
	}
}

// WithGenerator builds the configured backend; apply it after
// WithAssistantConfig and WithRedisServer.
func WithGenerator() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.assistantConfig == nil {
			return fmt.Errorf("logger and assistant config must be set before the generator")
		}

		gen, release, err := NewGenerator(s.log, s.assistantConfig, s.redisServer)
		if err != nil {
			s.log.Errorf("Failed to create generator: %v", err)
			return err
		}
		s.generator = gen
		s.closers = append(s.closers, release)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	var assistantRepo assistantRepository.Repository
	if s.db != nil {
		assistantRepo = assistantRepository.New(s.db, s.log)
	}

	serviceConfig, err := s.assistantConfig.ServiceConfig()
	if err != nil {
		return err
	}

	assistantServices, err := assistantService.NewAssistantService(s.log, assistantRepo, s.generator, s.utils, serviceConfig)
	if err != nil {
		return fmt.Errorf("failed to create assistant service: %w", err)
	}
	s.assistantService = assistantServices

	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, assistantHandlers)
	return nil
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests, closes every session and releases
// backends in reverse order of creation.
func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.assistantService != nil {
		s.assistantService.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"backend": s.generator.Name(),
		})
	})
}
