package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/store"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "canvas.db")

	s1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.Save(ctx, "doc-1", []byte("persistent")))
	require.NoError(t, s1.Close())

	s2, err := store.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer s2.Close()

	data, err := s2.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("persistent"), data)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "concurrent.db"))
	require.NoError(t, err)
	defer s.Close()

	const workers = 10
	const ops = 10

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", w)
			for i := 0; i < ops; i++ {
				assert.NoError(t, s.Save(ctx, id, []byte(fmt.Sprintf("v%d", i))))
				_, err := s.Load(ctx, id)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, workers)
	for _, info := range infos {
		assert.Equal(t, ops, info.Revision)
	}
}
