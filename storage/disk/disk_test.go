package disk

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndResolveRoundtrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save([]byte("payload"), "jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	assert.NoError(t, store.Check(context.Background(), ref))

	data, err := store.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestSaveWithoutExtension(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save([]byte("payload"), "")
	require.NoError(t, err)
	assert.Equal(t, "", filepath.Ext(ref))
}

func TestCheckMissingFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.Error(t, store.Check(context.Background(), filepath.Join(dir, "missing.jpg")))
}

func TestCheckRejectsDirectory(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.Error(t, store.Check(context.Background(), dir))
}

func TestResolveMissingFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)

	_, err = store.Resolve(context.Background(), filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}
