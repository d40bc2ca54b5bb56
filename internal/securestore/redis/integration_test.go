//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/spendy/internal/model"
	"github.com/dtroode/spendy/internal/securestore/redis"
)

var redisURL string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	redisURL = fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := redis.NewClient(ctx, redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := redis.NewStore(client, "test:")

	_, err = store.Read(ctx, "svc", model.AccountUserPIN)
	require.ErrorIs(t, err, model.ErrSecretNotFound)

	require.NoError(t, store.SaveBatch(ctx, "svc", map[string][]byte{
		model.AccountAccessToken:  []byte("a1"),
		model.AccountRefreshToken: []byte("r1"),
	}))
	require.NoError(t, store.Save(ctx, "svc", model.AccountUserPIN, []byte("123456")))

	got, err := store.Read(ctx, "svc", model.AccountRefreshToken)
	require.NoError(t, err)
	require.Equal(t, []byte("r1"), got)

	got, err = store.Read(ctx, "svc", model.AccountUserPIN)
	require.NoError(t, err)
	require.Equal(t, []byte("123456"), got)

	require.NoError(t, store.Delete(ctx, "svc", model.AccountUserPIN))
	_, err = store.Read(ctx, "svc", model.AccountUserPIN)
	require.ErrorIs(t, err, model.ErrSecretNotFound)
}
