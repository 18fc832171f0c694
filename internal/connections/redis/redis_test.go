package redis

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	c := NewClient(config.RedisConfig{Addr: "cache:6380", Password: "pw", DB: 2})
	defer c.Close()

	opts := c.Options()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestConnectFailsWithoutServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Connect(context.Background(), config.RedisConfig{Addr: addr})
	assert.ErrorContains(t, err, addr)
}
