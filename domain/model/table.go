package model

import "fmt"

// TableData is the assembled unit of one ingestion attempt: table-level
// configuration, column structure and the cell matrix, plus derived metadata
// recomputed at construction time. Instances are immutable in identity; any
// edit produces a new, revalidated TableData.
type TableData struct {
	// config is the table-level configuration.
	config TableConfig
	// structure is the ordered column definition.
	structure TableStructure
	// rows is the cell matrix.
	rows [][]string

	// Derived metadata, computed by NewTableData.
	rowsCount   int
	colsCount   int
	filledCells int
}

// NewTableData creates a TableData and computes its derived metadata.
func NewTableData(config TableConfig, structure TableStructure, rows [][]string) *TableData {
	filled := 0
	for _, row := range rows {
		for _, cell := range row {
			if !IsBlank(cell) {
				filled++
			}
		}
	}

	return &TableData{
		config:      config,
		structure:   structure,
		rows:        rows,
		rowsCount:   len(rows),
		colsCount:   len(structure),
		filledCells: filled,
	}
}

// Config returns the table-level configuration.
func (t *TableData) Config() TableConfig {
	return t.config
}

// Structure returns the column definition.
func (t *TableData) Structure() TableStructure {
	return t.structure
}

// Rows returns the cell matrix.
func (t *TableData) Rows() [][]string {
	return t.rows
}

// RowsCount returns the number of rows in the matrix.
func (t *TableData) RowsCount() int {
	return t.rowsCount
}

// ColsCount returns the number of declared columns.
func (t *TableData) ColsCount() int {
	return t.colsCount
}

// FilledCells returns the number of cells that are non-blank after trimming.
func (t *TableData) FilledCells() int {
	return t.filledCells
}

// FillPercentage returns filled cells over total cell slots as a percentage.
// Returns 0 when either dimension is 0.
func (t *TableData) FillPercentage() float64 {
	total := t.rowsCount * t.colsCount
	if total == 0 {
		return 0.0
	}
	return float64(t.filledCells) / float64(total) * 100
}

// ValidateConsistency checks that every row has exactly as many cells as the
// structure declares columns. It returns one error string per offending row
// (1-indexed); an empty slice means the matrix is consistent.
func (t *TableData) ValidateConsistency() []string {
	var errs []string
	for i, row := range t.rows {
		if len(row) != t.colsCount {
			errs = append(errs, fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), t.colsCount))
		}
	}
	return errs
}
