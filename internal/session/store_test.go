package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok := store.Get(KeyAuthToken)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyAuthToken, "tok-1"))
	v, ok := store.Get(KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, store.Clear(KeyAuthToken))
	_, ok = store.Get(KeyAuthToken)
	assert.False(t, ok)
}

func TestFileStore_ReadAfterWrite(t *testing.T) {
	// No async flush: a value must be visible the moment Set returns.
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyStudentID, "s123"))
	v, ok := store.Get(KeyStudentID)
	require.True(t, ok)
	assert.Equal(t, "s123", v)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAuthToken, "tok-1"))
	require.NoError(t, store.Set(KeyStudentID, "s123"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	v, ok := reopened.Get(KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	v, ok = reopened.Get(KeyStudentID)
	assert.True(t, ok)
	assert.Equal(t, "s123", v)
}

func TestFileStore_ClearPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAuthToken, "tok-1"))
	require.NoError(t, store.Clear(KeyAuthToken))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok := reopened.Get(KeyAuthToken)
	assert.False(t, ok)
}

func TestFileStore_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok := store.Get(KeyAuthToken)
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyAuthToken, "tok-1"))
	v, ok := store.Get(KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)
}

func TestFileStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAuthToken, "tok-1"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStore_EmptyValueTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyAuthToken, ""))
	_, ok := store.Get(KeyAuthToken)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set(KeyStudentID, "s1"))
	v, ok := store.Get(KeyStudentID)
	assert.True(t, ok)
	assert.Equal(t, "s1", v)

	require.NoError(t, store.Clear(KeyStudentID))
	_, ok = store.Get(KeyStudentID)
	assert.False(t, ok)
}

func TestTokenSource(t *testing.T) {
	store := NewMemoryStore()
	source := NewTokenSource(store)

	_, ok := source.Token()
	assert.False(t, ok)

	require.NoError(t, store.Set(KeyAuthToken, "tok-9"))
	token, ok := source.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok-9", token)
}
