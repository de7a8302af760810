package aitable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableAsync(t *testing.T) {
	t.Parallel()

	t.Run("delivers result and stage progression", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		m := NewManager(store)
		table := newTestTable(t, "async_links", [][]string{{"a", "b"}})

		var stages []CreationStage
		results := m.CreateTableAsync(context.Background(), table, func(s CreationStage) {
			stages = append(stages, s)
		})

		result, ok := <-results
		require.True(t, ok)
		// Receiving the result establishes ordering with the callback writes.
		assert.Equal(t, []CreationStage{StagePreparing, StagePersisting, StageFinished}, stages)

		assert.True(t, result.Success, "errors: %v", result.Errors)
		assert.Equal(t, "async_links", result.TableName)

		_, open := <-results
		assert.False(t, open, "channel should be closed after the result")
	})

	t.Run("validation failure skips the persisting stage", func(t *testing.T) {
		t.Parallel()

		m := NewManager(&fakeStore{})
		table := newTestTable(t, "bad name!", [][]string{{"a", "b"}})

		var stages []CreationStage
		result := <-m.CreateTableAsync(context.Background(), table, func(s CreationStage) {
			stages = append(stages, s)
		})

		assert.False(t, result.Success)
		assert.Equal(t, []CreationStage{StagePreparing, StageFinished}, stages)
	})

	t.Run("nil progress callback is allowed", func(t *testing.T) {
		t.Parallel()

		m := NewManager(&fakeStore{})
		table := newTestTable(t, "quiet", [][]string{{"a", "b"}})

		select {
		case result := <-m.CreateTableAsync(context.Background(), table, nil):
			assert.True(t, result.Success)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for async result")
		}
	})
}

func TestCreationStageString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "preparing", StagePreparing.String())
	assert.Equal(t, "persisting", StagePersisting.String())
	assert.Equal(t, "finished", StageFinished.String())
	assert.Equal(t, "unknown", CreationStage(99).String())
}
