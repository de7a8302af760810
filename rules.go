package aitable

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/widgetsb/aitable/domain/model"
)

const (
	// maxTableNameLength caps a table name. Looser than the ingestion
	// document limit: names from other sources only have to fit storage.
	maxTableNameLength = 100
	// maxCellLength caps a sanitized cell value.
	maxCellLength = 5000
)

// tableNamePattern restricts table names to identifier-safe characters.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedTableNames are SQL keywords that cannot be used as table names
// even though they match the identifier pattern.
var reservedTableNames = map[string]struct{}{
	"select": {}, "insert": {}, "update": {}, "delete": {},
	"drop": {}, "create": {}, "alter": {}, "table": {},
	"index": {}, "view": {}, "trigger": {}, "where": {},
	"from": {}, "join": {}, "union": {}, "order": {},
	"group": {}, "having": {}, "limit": {},
}

// ValidateTableName checks a table name against length, character and
// reserved-word rules. Existing is the set of names already in use; the
// comparison is case-insensitive.
func ValidateTableName(name string, existing []string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyTableName
	}
	if utf8.RuneCountInString(trimmed) > maxTableNameLength {
		return ErrTableNameTooLong
	}
	if !tableNamePattern.MatchString(trimmed) {
		return ErrInvalidTableName
	}
	if _, reserved := reservedTableNames[strings.ToLower(trimmed)]; reserved {
		return ErrReservedTableName
	}
	for _, e := range existing {
		if strings.EqualFold(trimmed, e) {
			return ErrDuplicateTableName
		}
	}
	return nil
}

// ValidateDimensions checks a requested table shape against the supported
// row and column ranges.
func ValidateDimensions(rows, cols int) error {
	if rows < model.MinTableRows || rows > model.MaxTableRows {
		return fmt.Errorf("aitable: rows must be between %d and %d, got %d",
			model.MinTableRows, model.MaxTableRows, rows)
	}
	if cols < model.MinTableCols || cols > model.MaxTableCols {
		return fmt.Errorf("aitable: columns must be between %d and %d, got %d",
			model.MinTableCols, model.MaxTableCols, cols)
	}
	return nil
}

// ValidateColumnNames checks that every column name is non-blank, within the
// length limit, and unique within the table (case-insensitive).
func ValidateColumnNames(names []string) error {
	seen := make(map[string]int, len(names))
	for i, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("aitable: column %d has an empty name", i+1)
		}
		if utf8.RuneCountInString(trimmed) > maxNameLength {
			return fmt.Errorf("aitable: column %d name exceeds %d characters", i+1, maxNameLength)
		}
		lower := strings.ToLower(trimmed)
		if prev, dup := seen[lower]; dup {
			return fmt.Errorf("aitable: column %d duplicates column %d name %q", i+1, prev+1, trimmed)
		}
		seen[lower] = i
	}
	return nil
}

// ValidateTableData checks a parsed table against the shape rules: name,
// dimensions, column names, and row consistency. It returns every violation
// found.
func ValidateTableData(table *model.TableData, existingNames []string) []string {
	var errs []string

	if err := ValidateTableName(table.Config().TableName, existingNames); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateDimensions(table.RowsCount(), table.ColsCount()); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateColumnNames(table.Structure().ColumnNames()); err != nil {
		errs = append(errs, err.Error())
	}
	errs = append(errs, table.ValidateConsistency()...)

	return errs
}

// SanitizeCell normalizes a cell value for storage: surrounding whitespace
// is trimmed, internal whitespace runs collapse to a single space, and the
// result is capped at maxCellLength characters.
func SanitizeCell(value string) string {
	fields := strings.Fields(value)
	out := strings.Join(fields, " ")
	if utf8.RuneCountInString(out) > maxCellLength {
		runes := []rune(out)
		out = string(runes[:maxCellLength])
	}
	return out
}

// SanitizeRows applies SanitizeCell to every cell and returns the sanitized
// copy. The input is not modified.
func SanitizeRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = SanitizeCell(cell)
		}
	}
	return out
}
