package adapter

import (
	"context"
	"testing"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisAdapterRejectsBadURL(t *testing.T) {
	_, err := NewRedisAdapter(context.Background(), "  ", "tincanz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, err = NewRedisAdapter(context.Background(), "http://not-redis", "tincanz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse url")
}

func TestKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = client.Close() }()

	assert.Equal(t, "tincanz:inbox:counts:gen", NewRedisCache(client, "tincanz").key("inbox:counts:gen"))
	assert.Equal(t, "inbox:counts:gen", NewRedisCache(client, "").key("inbox:counts:gen"))
}
