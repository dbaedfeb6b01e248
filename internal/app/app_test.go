package app

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sellerhub/pkg/database"
)

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) database.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := database.DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = port
	return cfg
}

func TestConnectRedis_Reachable(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := connectRedis(context.Background(), redisConfigFor(t, mr), testLogger())
	t.Cleanup(func() { rdb.Close() })

	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestConnectRedis_UnreachableIsNotFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfigFor(t, mr)
	mr.Close()

	rdb := connectRedis(context.Background(), cfg, testLogger())
	require.NotNil(t, rdb)
	t.Cleanup(func() { rdb.Close() })
	assert.Error(t, rdb.Ping(context.Background()).Err())
}
