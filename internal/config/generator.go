package config

import (
	"fmt"

	"ArdenGolang/pkg/gemini"
	"ArdenGolang/pkg/generator"
	"ArdenGolang/pkg/nlp"
	chatGPT "ArdenGolang/pkg/openai"
	"ArdenGolang/pkg/redis"
	websocketPkg "ArdenGolang/pkg/websocket"

	"github.com/sirupsen/logrus"
)

// NewGenerator builds the configured backend. With a cache and a positive
// CacheTTL, completed generations are replayed from redis. The returned func
// releases backend resources.
func NewGenerator(log *logrus.Logger, cfg *AssistantConfig, cache redis.IRedis) (generator.IGenerator, func(), error) {
	var (
		gen     generator.IGenerator
		release = func() {}
		err     error
	)

	switch cfg.Generator {
	case GeneratorStandIn:
		gen = generator.NewStandIn(log, nlp.NewProcessor(),
			generator.WithFragmentDelay(cfg.StandInDelay),
			generator.WithStandInMaxFragments(cfg.MaxFragments),
		)
	case GeneratorOpenAI:
		gen, err = chatGPT.NewChatGPT(log, cfg.MaxFragments)
	case GeneratorGemini:
		var client gemini.IGemini
		client, err = gemini.NewGeminiClient(log, cfg.MaxFragments)
		if err == nil {
			gen, release = client, client.Close
		}
	case GeneratorSidecar:
		gen, err = websocketPkg.NewSidecarClient(log, cfg.SidecarURL, cfg.MaxFragments)
	default:
		err = fmt.Errorf("unknown generator %q", cfg.Generator)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create %s generator: %w", cfg.Generator, err)
	}

	if cache != nil && cfg.CacheTTL > 0 {
		gen = generator.NewCached(log, gen, cache, cfg.CacheTTL)
	}

	log.WithFields(logrus.Fields{
		"backend":   gen.Name(),
		"cache_ttl": cfg.CacheTTL.String(),
	}).Info("Generator configured")
	return gen, release, nil
}
