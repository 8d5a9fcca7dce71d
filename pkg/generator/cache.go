package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// IResponseCache stores complete generations keyed by prompt hash.
type IResponseCache interface {
	GetResponse(ctx context.Context, key string) (string, bool, error)
	SetResponse(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteResponse(ctx context.Context, key string) error
}

type cachedGenerator struct {
	log   *logrus.Logger
	inner IGenerator
	cache IResponseCache
	ttl   time.Duration
}

// NewCached wraps inner so identical prompts replay the stored response. Only
// generations that finish cleanly are stored.
func NewCached(log *logrus.Logger, inner IGenerator, cache IResponseCache, ttl time.Duration) IGenerator {
	return &cachedGenerator{
		log:   log,
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (g *cachedGenerator) Name() string {
	return g.inner.Name()
}

// replayable reports whether a stored generation can hold a JSON object.
func replayable(text string) bool {
	open := strings.Index(text, "{")
	return open >= 0 && strings.LastIndex(text, "}") > open
}

func CacheKey(backend string, prompt Prompt) string {
	sum := sha256.Sum256([]byte(prompt.Format()))
	return "assistant:generation:" + backend + ":" + hex.EncodeToString(sum[:])
}

func (g *cachedGenerator) Generate(ctx context.Context, prompt Prompt) (*Stream, error) {
	key := CacheKey(g.inner.Name(), prompt)

	cached, ok, err := g.cache.GetResponse(ctx, key)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Generation cache lookup failed")
	}
	if ok && !replayable(cached) {
		g.log.WithField("key", key).Warn("Evicting unusable cached generation")
		if delErr := g.cache.DeleteResponse(ctx, key); delErr != nil {
			g.log.WithFields(logrus.Fields{
				"key":   key,
				"error": delErr.Error(),
			}).Warn("Generation cache eviction failed")
		}
		ok = false
	}
	if ok {
		g.log.WithField("key", key).Debug("Generation cache hit")
		return Start(ctx, g.Name()+"+cache", g.log, func(ctx context.Context, emit func(string) bool) error {
			for _, f := range Chunk(cached, 16) {
				if !emit(f) {
					return nil
				}
			}
			return nil
		}), nil
	}

	upstream, err := g.inner.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return Start(ctx, g.Name()+"+cache", nil, func(ctx context.Context, emit func(string) bool) error {
		defer upstream.Close()

		var b strings.Builder
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case f, ok := <-upstream.Fragments():
				if !ok {
					if err := upstream.Err(); err != nil {
						return err
					}
					if !replayable(b.String()) {
						return nil
					}
					if setErr := g.cache.SetResponse(ctx, key, b.String(), g.ttl); setErr != nil {
						g.log.WithFields(logrus.Fields{
							"key":   key,
							"error": setErr.Error(),
						}).Warn("Generation cache store failed")
					}
					return nil
				}
				b.WriteString(f)
				if !emit(f) {
					return nil
				}
			}
		}
	}), nil
}
