package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("Save And Open", func(t *testing.T) {
		key, err := store.Save(ctx, "PNG", strings.NewReader("image-bytes"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, ".png"))

		rc, err := store.Open(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))
	})

	t.Run("Missing Key", func(t *testing.T) {
		_, err := store.Open(ctx, "missing.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Path Traversal", func(t *testing.T) {
		_, err := store.Open(ctx, "../secret")
		assert.ErrorIs(t, err, ErrInvalidKey)
		_, err = store.Open(ctx, ".hidden")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("Delete", func(t *testing.T) {
		key, err := store.Save(ctx, ".gif", strings.NewReader("gif"))
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key))

		_, err = store.Open(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
