package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/spendy/internal/model"
)

func TestStore_SaveReadDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Read(ctx, "svc", "acc")
	require.ErrorIs(t, err, model.ErrSecretNotFound)

	require.NoError(t, s.Save(ctx, "svc", "acc", []byte("secret")))
	got, err := s.Read(ctx, "svc", "acc")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)

	require.NoError(t, s.Save(ctx, "svc", "acc", []byte("rotated")))
	got, err = s.Read(ctx, "svc", "acc")
	require.NoError(t, err)
	assert.Equal(t, []byte("rotated"), got)

	require.NoError(t, s.Delete(ctx, "svc", "acc"))
	_, err = s.Read(ctx, "svc", "acc")
	require.ErrorIs(t, err, model.ErrSecretNotFound)

	require.NoError(t, s.Delete(ctx, "svc", "acc"))
}

func TestStore_ServicesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Save(ctx, "a", "acc", []byte("1")))
	_, err := s.Read(ctx, "b", "acc")
	require.ErrorIs(t, err, model.ErrSecretNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	in := []byte("secret")
	require.NoError(t, s.Save(ctx, "svc", "acc", in))
	in[0] = 'X'

	got, err := s.Read(ctx, "svc", "acc")
	require.NoError(t, err)
	got[1] = 'Y'

	again, err := s.Read(ctx, "svc", "acc")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), again)
}

func TestStore_SaveBatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveBatch(ctx, "svc", map[string][]byte{
		model.AccountAccessToken:  []byte("a"),
		model.AccountRefreshToken: []byte("r"),
	}))
	assert.Equal(t, 2, s.Len())

	got, err := s.Read(ctx, "svc", model.AccountRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("r"), got)
}
