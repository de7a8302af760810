package aitable

import (
	"context"

	"github.com/widgetsb/aitable/domain/model"
)

// CreationStage identifies a phase of an asynchronous table creation.
type CreationStage int

const (
	// StagePreparing covers validation, detection and sanitization.
	StagePreparing CreationStage = iota
	// StagePersisting covers the store write.
	StagePersisting
	// StageFinished is reported once the result is ready.
	StageFinished
)

// String returns the stage name.
func (s CreationStage) String() string {
	switch s {
	case StagePreparing:
		return "preparing"
	case StagePersisting:
		return "persisting"
	case StageFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// CreateTableAsync runs CreateTableFromAI on its own goroutine and delivers
// the result on the returned channel. The channel is buffered, so the
// goroutine never blocks on a caller that walks away. onProgress, when
// non-nil, is invoked from the worker goroutine as each stage begins.
//
// Cancelling ctx makes the store abort its work; the failure surfaces as a
// failed CreateResult like any other error.
func (m *Manager) CreateTableAsync(ctx context.Context, table *model.TableData, onProgress func(CreationStage)) <-chan CreateResult {
	results := make(chan CreateResult, 1)

	go func() {
		defer close(results)

		notify := func(stage CreationStage) {
			if onProgress != nil {
				onProgress(stage)
			}
		}
		result := m.createTable(ctx, table, notify)
		notify(StageFinished)
		results <- result
	}()

	return results
}
