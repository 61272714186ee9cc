package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MemoryStore(t *testing.T) {
	// Act
	store, err := New(Config{Path: ":memory:"})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.IsType(t, &MemoryStore{}, store)
}

func TestNew_EmptyPath(t *testing.T) {
	store, err := New(Config{})

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestStore_Interface(t *testing.T) {
	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*SQLiteStore)(nil)
}
