package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	assistantService "ArdenGolang/internal/api/assistant/service"
	"ArdenGolang/internal/dispatch"
	"ArdenGolang/internal/gate"
	"ArdenGolang/internal/interpreter"
	"ArdenGolang/pkg/generator"

	"github.com/go-playground/validator/v10"
)

const (
	GeneratorStandIn = "standin"
	GeneratorOpenAI  = "openai"
	GeneratorGemini  = "gemini"
	GeneratorSidecar = "sidecar"
)

// AssistantConfig collects the ASSISTANT_* tunables.
type AssistantConfig struct {
	Generator          string        `validate:"oneof=standin openai gemini sidecar"`
	Threshold          float64       `validate:"gt=0,lte=1"`
	HistoryTurns       int           `validate:"gte=0,lte=50"`
	MaxFragments       int           `validate:"gte=1,lte=8192"`
	TurnTimeout        time.Duration `validate:"gt=0"`
	CacheTTL           time.Duration `validate:"gte=0"`
	Timezone           string        `validate:"required,timezone"`
	SidecarURL         string        `validate:"required_if=Generator sidecar,omitempty,url"`
	SessionIdleTimeout time.Duration `validate:"gte=0"`
	StandInDelay       time.Duration `validate:"gte=0"`
}

func DefaultAssistantConfig() AssistantConfig {
	return AssistantConfig{
		Generator:          GeneratorStandIn,
		Threshold:          gate.DefaultThreshold,
		HistoryTurns:       generator.DefaultHistoryTurns,
		MaxFragments:       generator.DefaultMaxFragments,
		TurnTimeout:        60 * time.Second,
		Timezone:           "UTC",
		SessionIdleTimeout: 30 * time.Minute,
	}
}

// LoadAssistantConfig reads the environment over the defaults and validates
// the result.
func LoadAssistantConfig(validate *validator.Validate) (*AssistantConfig, error) {
	cfg := DefaultAssistantConfig()

	if v := strings.TrimSpace(os.Getenv("ASSISTANT_GENERATOR")); v != "" {
		cfg.Generator = strings.ToLower(v)
	}
	if v := os.Getenv("ASSISTANT_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	cfg.SidecarURL = os.Getenv("ASSISTANT_SIDECAR_URL")

	var err error
	if cfg.Threshold, err = envFloat("ASSISTANT_CONFIDENCE_THRESHOLD", cfg.Threshold); err != nil {
		return nil, err
	}
	if cfg.HistoryTurns, err = envInt("ASSISTANT_HISTORY_TURNS", cfg.HistoryTurns); err != nil {
		return nil, err
	}
	if cfg.MaxFragments, err = envInt("ASSISTANT_MAX_FRAGMENTS", cfg.MaxFragments); err != nil {
		return nil, err
	}
	if cfg.TurnTimeout, err = envDuration("ASSISTANT_TURN_TIMEOUT", cfg.TurnTimeout); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = envDuration("ASSISTANT_CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = envDuration("ASSISTANT_SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout); err != nil {
		return nil, err
	}
	if cfg.StandInDelay, err = envDuration("ASSISTANT_STANDIN_DELAY", cfg.StandInDelay); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid assistant config: %w", err)
	}
	return &cfg, nil
}

func (c *AssistantConfig) ServiceConfig() (*assistantService.Config, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}

	svc := assistantService.DefaultConfig()
	svc.Runtime = dispatch.Config{
		SystemInstruction: interpreter.SystemInstruction,
		Threshold:         c.Threshold,
		HistoryTurns:      c.HistoryTurns,
		TurnTimeout:       c.TurnTimeout,
	}
	svc.Location = loc
	svc.IdleTimeout = c.SessionIdleTimeout
	return svc, nil
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// envDuration accepts Go durations ("90s") or plain seconds ("90").
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
