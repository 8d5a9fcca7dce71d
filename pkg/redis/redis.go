package redis

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// IRedis is the generation response cache.
type IRedis interface {
	GetResponse(ctx context.Context, key string) (string, bool, error)
	SetResponse(ctx context.Context, key string, value string, expiration time.Duration) error
	DeleteResponse(ctx context.Context, key string) error
	Close() error
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Entry
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	addr := os.Getenv("REDIS_ADDRESS")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fields := logrus.Fields{"address": addr, "db": db}
	if err := client.Ping(ctx).Err(); err != nil {
		fields["error"] = err.Error()
		logrus.WithFields(fields).Error("Redis unreachable, generation cache will miss")
	} else {
		logrus.WithFields(fields).Info("Connected to Redis")
	}

	return NewFromClient(client)
}

func NewFromClient(client *redis.Client) IRedis {
	return &redisClient{
		client: client,
		log:    logrus.WithField("component", "generation_cache"),
	}
}

func (r *redisClient) SetResponse(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		r.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Failed to store generation")
		return err
	}
	r.log.WithFields(logrus.Fields{
		"key":   key,
		"bytes": len(value),
		"ttl":   expiration.String(),
	}).Debug("Stored generation")
	return nil
}

// GetResponse reports a miss as ok=false with a nil error.
func (r *redisClient) GetResponse(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		r.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Failed to read generation")
		return "", false, err
	}
	return val, true, nil
}

func (r *redisClient) DeleteResponse(ctx context.Context, key string) error {
	removed, err := r.client.Del(ctx, key).Result()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Failed to evict generation")
		return err
	}
	r.log.WithFields(logrus.Fields{
		"key":     key,
		"removed": removed,
	}).Debug("Evicted generation")
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
