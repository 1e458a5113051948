package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pipe.db"))
	assert.Nil(t, err)

	ctx := context.Background()
	assert.Nil(t, s.Set(ctx, "/trace/run-1", "extract_trello", []byte("record-a")))
	assert.Nil(t, s.Set(ctx, "/trace/run-1", "transform_clean", []byte("record-b")))
	assert.Nil(t, s.Set(ctx, "/trace/run-2", "extract_trello", []byte("other-run")))

	v, err := s.Get(ctx, "/trace/run-1", "extract_trello")
	assert.Nil(t, err)
	assert.Equal(t, []byte("record-a"), v)

	// overwrite on the same key
	assert.Nil(t, s.Set(ctx, "/trace/run-1", "extract_trello", []byte("record-a2")))
	v, err = s.Get(ctx, "/trace/run-1", "extract_trello")
	assert.Nil(t, err)
	assert.Equal(t, []byte("record-a2"), v)

	keys := make([]string, 0)
	assert.Nil(t, s.List(ctx, "/trace/run-1", func(key string) bool {
		keys = append(keys, key)
		return true
	}))
	assert.Equal(t, []string{"extract_trello", "transform_clean"}, keys)

	assert.Nil(t, s.Remove(ctx, "/trace/run-1", "extract_trello"))
	v, err = s.Get(ctx, "/trace/run-1", "extract_trello")
	assert.Nil(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipe.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	assert.Nil(t, err)
	assert.Nil(t, s.Set(ctx, "/summary/", "run-1", []byte("summary")))
	assert.Nil(t, s.(*sqliteStore).Close())

	reopened, err := NewSQLiteStore(path)
	assert.Nil(t, err)
	v, err := reopened.Get(ctx, "/summary/", "run-1")
	assert.Nil(t, err)
	assert.Equal(t, []byte("summary"), v)
}

func TestSQLiteStoreListStopsEarly(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pipe.db"))
	assert.Nil(t, err)

	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		assert.Nil(t, s.Set(ctx, "/trace/run-1", key, []byte(key)))
	}

	seen := 0
	assert.Nil(t, s.List(ctx, "/trace/run-1", func(key string) bool {
		seen++
		return false
	}))
	assert.Equal(t, 1, seen)
}
