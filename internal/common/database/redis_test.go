package database

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-console/internal/common/config"
)

func newMiniredisClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisClient_LoadMissingKey(t *testing.T) {
	client, _ := newMiniredisClient(t)

	data, err := client.Load(context.Background(), "assistant:vip-visits")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRedisClient_SaveThenLoad(t *testing.T) {
	client, mr := newMiniredisClient(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.Save(ctx, "assistant:vip-visits", []byte(`[{"id":"1"}]`)))
	require.NoError(t, client.Save(ctx, "assistant:vip-visits", []byte(`[{"id":"2"}]`)))

	data, err := client.Load(ctx, "assistant:vip-visits")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2"}]`, string(data))

	assert.Zero(t, mr.TTL("assistant:vip-visits"))
}

func TestRedisClient_Errors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewRedisFromClient(db)
	ctx := context.Background()

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	_, err := client.Load(ctx, "k")
	assert.ErrorContains(t, err, "connection refused")

	mock.ExpectSet("k", []byte("v"), 0).SetErr(errors.New("READONLY"))
	err = client.Save(ctx, "k", []byte("v"))
	assert.ErrorContains(t, err, "READONLY")

	mock.ExpectGet("missing").SetErr(redis.Nil)
	data, err := client.Load(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, mock.ExpectationsWereMet())
}
