package aitable

import (
	"context"
	"fmt"

	"github.com/widgetsb/aitable/domain/model"
)

// TableStore persists validated tables. The store package provides the
// SQLite implementation; tests substitute their own.
type TableStore interface {
	// CreateTable persists a table and its metadata, returning a result
	// describing what was created. Implementations return an error for
	// infrastructure failures and put domain rejections in the result.
	CreateTable(ctx context.Context, req CreateTableRequest) (CreateTableResult, error)

	// ListTableNames returns the names of every stored table.
	ListTableNames(ctx context.Context) ([]string, error)
}

// CreateTableRequest carries everything the store needs to persist a table.
type CreateTableRequest struct {
	CategoryID       int
	TableName        string
	TableData        [][]string
	ColumnNames      []string
	Tags             []string
	SensitiveColumns []int
	URLColumns       []int
}

// CreateTableResult is the store's report on a persistence attempt.
type CreateTableResult struct {
	Success      bool
	ItemsCreated int
	TableName    string
	Errors       []string
}

// CreateResult is the orchestrator's outcome for a full create operation,
// extending the store result with fill statistics.
type CreateResult struct {
	Success        bool
	ItemsCreated   int
	TableName      string
	Errors         []string
	FilledCells    int
	FillPercentage float64
}

// Manager orchestrates the ingestion pipeline: validation, sanitization
// and persistence.
type Manager struct {
	store TableStore
}

// NewManager returns a Manager backed by store.
func NewManager(store TableStore) *Manager {
	return &Manager{store: store}
}

// CreateTableFromAI runs the full pipeline on a parsed table and persists
// it. It never returns an error and never panics past its boundary: every
// failure, including a panic inside a store implementation, becomes a
// failed CreateResult.
func (m *Manager) CreateTableFromAI(ctx context.Context, table *model.TableData) CreateResult {
	return m.createTable(ctx, table, func(CreationStage) {})
}

// createTable is the pipeline body shared by the synchronous and
// asynchronous entry points. notify is called as each stage begins.
func (m *Manager) createTable(ctx context.Context, table *model.TableData, notify func(CreationStage)) (result CreateResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failedResult(tableName(table), fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	notify(StagePreparing)

	if table == nil {
		return failedResult("", "no table data provided")
	}
	name := table.Config().TableName
	if m.store == nil {
		return failedResult(name, ErrNoStore.Error())
	}

	existing, err := m.store.ListTableNames(ctx)
	if err != nil {
		return failedResult(name, fmt.Sprintf("failed to list existing tables: %v", err))
	}

	if errs := ValidateTableData(table, existing); len(errs) > 0 {
		return failedResult(name, errs...)
	}

	// Column types and sensitivity come from the table's own structure.
	// Auto detection is a separate opt-in utility; the ingestion path
	// treats the manual configuration as authoritative.
	structure := table.Structure()

	notify(StagePersisting)

	req := CreateTableRequest{
		CategoryID:       table.Config().CategoryID,
		TableName:        name,
		TableData:        SanitizeRows(table.Rows()),
		ColumnNames:      structure.ColumnNames(),
		Tags:             table.Config().Tags,
		SensitiveColumns: structure.SensitiveIndices(),
		URLColumns:       structure.URLIndices(),
	}

	stored, err := m.store.CreateTable(ctx, req)
	if err != nil {
		return failedResult(name, fmt.Sprintf("failed to create table: %v", err))
	}

	result = CreateResult{
		Success:      stored.Success,
		ItemsCreated: stored.ItemsCreated,
		TableName:    stored.TableName,
		Errors:       stored.Errors,
	}
	if result.Success {
		result.FilledCells = table.FilledCells()
		result.FillPercentage = table.FillPercentage()
	}
	return result
}

// ProcessJSON validates, parses and persists a raw JSON document in one
// call. Validation failures become a failed result without touching the
// store.
func (m *Manager) ProcessJSON(ctx context.Context, jsonStr string) CreateResult {
	verdict := ValidateJSON(jsonStr)
	if !verdict.IsValid {
		return failedResult("", verdict.Errors...)
	}

	table, errs := ParseJSON(jsonStr)
	if len(errs) > 0 {
		return failedResult("", errs...)
	}

	return m.CreateTableFromAI(ctx, table)
}

func failedResult(name string, errs ...string) CreateResult {
	return CreateResult{
		Success:   false,
		TableName: name,
		Errors:    errs,
	}
}

func tableName(table *model.TableData) string {
	if table == nil {
		return ""
	}
	return table.Config().TableName
}
