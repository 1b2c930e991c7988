package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/coursemanager/internal/client/storage"
)

func TestStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, storage.KeySession)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeySession, []byte("v1")))

	got, err := s.Get(ctx, storage.KeySession)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Remove(ctx, storage.KeySession))
	assert.NoError(t, s.Remove(ctx, storage.KeySession))
	assert.Equal(t, 0, s.Len())
}

func TestStorage_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestStorage_SetAll_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.SetAll(ctx, map[string][]byte{"a": nil, "": nil})
	assert.ErrorIs(t, err, storage.ErrEmptyKey)
	assert.Equal(t, 0, s.Len())

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, storage.ErrEmptyKey)
}

func TestStorage_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, "k", nil), context.Canceled)
	assert.ErrorIs(t, s.RemoveAll(ctx, "k"), context.Canceled)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_LastValidated(t *testing.T) {
	ctx := context.Background()
	s := New()

	ts, err := s.GetLastValidated(ctx)
	require.NoError(t, err)
	assert.Zero(t, ts)

	require.NoError(t, s.SaveLastValidated(ctx, 100))
	ts, err = s.GetLastValidated(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ts)
}

func TestStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = s.Set(ctx, key, []byte{byte(i)})
			_, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, s.Len())
}
