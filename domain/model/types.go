// Package model provides the domain model for aitable.
package model

import "strings"

// ColumnType represents the declared type of a table column.
type ColumnType int

const (
	// ColumnTypeText represents a plain text column
	ColumnTypeText ColumnType = iota
	// ColumnTypeURL represents a column holding URLs or email addresses
	ColumnTypeURL
)

const (
	columnTypeTextStr = "TEXT"
	columnTypeURLStr  = "URL"
)

// String returns the wire representation of the column type.
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeText:
		return columnTypeTextStr
	case ColumnTypeURL:
		return columnTypeURLStr
	default:
		return columnTypeTextStr
	}
}

// ParseColumnType converts a wire string to a ColumnType.
// Anything other than "URL" is coerced to TEXT. This silent fallback is
// intentional: imported JSON with an unrecognized type must still load.
func ParseColumnType(s string) ColumnType {
	if s == columnTypeURLStr {
		return ColumnTypeURL
	}
	return ColumnTypeText
}

// IsValidColumnTypeString reports whether s is an exact wire representation
// of a column type. Used by validation, where unknown strings are an error
// rather than a fallback.
func IsValidColumnTypeString(s string) bool {
	return s == columnTypeTextStr || s == columnTypeURLStr
}

// ColumnConfig describes a single table column.
type ColumnConfig struct {
	// Name is the display and storage key of the column.
	Name string
	// Type is the declared column type.
	Type ColumnType
	// IsSensitive marks the column for encryption by the persistence layer.
	IsSensitive bool
	// Description is optional free text.
	Description string
}

// NewColumnConfig creates a ColumnConfig from wire values, coercing an
// unrecognized type string to TEXT.
func NewColumnConfig(name, typ string, isSensitive bool, description string) ColumnConfig {
	return ColumnConfig{
		Name:        name,
		Type:        ParseColumnType(typ),
		IsSensitive: isSensitive,
		Description: description,
	}
}

// TableConfig holds table-level intent for one ingestion attempt.
type TableConfig struct {
	// TableName is the table name. Uniqueness is enforced by the
	// persistence layer, not here.
	TableName string
	// CategoryID is a foreign key into the external category registry.
	CategoryID int
	// Tags is an ordered tag list. Duplicates are allowed.
	Tags []string
	// AutoDetectSensitive and AutoDetectURLs are legacy toggles kept for
	// backward JSON compatibility. They are stored but never consulted;
	// manual column configuration is authoritative.
	AutoDetectSensitive bool
	AutoDetectURLs      bool
}

// TableStructure is the ordered column definition of a table.
type TableStructure []ColumnConfig

// NewTableStructure creates a TableStructure from a column list.
func NewTableStructure(columns []ColumnConfig) TableStructure {
	return TableStructure(columns)
}

// ColumnNames returns the column names in order.
func (s TableStructure) ColumnNames() []string {
	names := make([]string, 0, len(s))
	for _, col := range s {
		names = append(names, col.Name)
	}
	return names
}

// SensitiveIndices returns the indices of sensitive columns.
func (s TableStructure) SensitiveIndices() []int {
	indices := make([]int, 0, len(s))
	for i, col := range s {
		if col.IsSensitive {
			indices = append(indices, i)
		}
	}
	return indices
}

// URLIndices returns the indices of URL-typed columns.
func (s TableStructure) URLIndices() []int {
	indices := make([]int, 0, len(s))
	for i, col := range s {
		if col.Type == ColumnTypeURL {
			indices = append(indices, i)
		}
	}
	return indices
}

// IsBlank reports whether a cell value is empty after trimming whitespace.
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}
