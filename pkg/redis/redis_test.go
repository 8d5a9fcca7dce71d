package redis_test

import (
	"context"
	"testing"
	"time"

	redisPkg "ArdenGolang/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestGetResponse_ConnectionErrorIsNotAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	r := redisPkg.NewFromClient(client)
	defer r.Close()

	_, ok, err := r.GetResponse(context.Background(), "assistant:generation:k")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDeleteResponse_ConnectionError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	r := redisPkg.NewFromClient(client)
	defer r.Close()

	assert.Error(t, r.DeleteResponse(context.Background(), "assistant:generation:k"))
}
