package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-buddy/internal/cache"
	"study-buddy/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const cachedPayload = `{"meta":{"topic":"Cells","total_questions":0},"questions":[]}`

func TestRedisCacheAdapter_Get(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)
	ctx := context.Background()
	key := cache.GenerationKey("notes", "openai/gpt-4o-mini")

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(cachedPayload)
		val, err := adapter.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, cachedPayload, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet(key).RedisNil()
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(redisErr)
		_, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_SetWithTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)
	ctx := context.Background()
	key := cache.GenerationKey("notes", "openai/gpt-4o-mini")

	mock.ExpectSet(key, cachedPayload, 24*time.Hour).SetVal("OK")
	assert.NoError(t, adapter.Set(ctx, key, cachedPayload, 24*time.Hour))

	redisErr := errors.New("OOM command not allowed")
	mock.ExpectSet(key, cachedPayload, time.Hour).SetErr(redisErr)
	assert.ErrorIs(t, adapter.Set(ctx, key, cachedPayload, time.Hour), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)
	ctx := context.Background()
	key := cache.GenerationKey("notes", "gemini/gemini-2.0-flash")

	mock.ExpectDel(key).SetVal(0)
	assert.NoError(t, adapter.Delete(ctx, key), "deleting a missing key is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)
	ctx := context.Background()

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	mock.ExpectPing().SetErr(redis.ErrClosed)
	assert.ErrorIs(t, adapter.Ping(ctx), redis.ErrClosed)

	assert.NoError(t, mock.ExpectationsWereMet())
}
