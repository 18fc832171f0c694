package session

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-dashboard/internal/domain"
)

func TestStoredSessionKeepsToken(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := New("tok-1", domain.AdminProfile{Name: "Ana", Role: "Manager"}, now, time.Hour)

	b, err := json.Marshal(storedSession{Session: s, Token: s.Token})
	require.NoError(t, err)
	got, err := decodeStored(b)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, RoleManager, got.Role)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))

	_, err = decodeStored([]byte(`{"role":"chef"}`))
	assert.Error(t, err)
}

func TestRedisStoreUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()
	st := NewRedisStore(client, time.Hour)

	_, err = st.Open("tok", Session{Role: RoleChef})
	assert.Error(t, err)
	_, ok := st.Get("tok")
	assert.False(t, ok)
	assert.Zero(t, st.Sweep())
}
