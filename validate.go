package aitable

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/widgetsb/aitable/domain/model"
)

// Validation limits for the table document shape.
const (
	// maxNameLength is the maximum length, in characters, of table and
	// column names inside the document.
	maxNameLength = 50

	// warnColumnCount is the column count above which a readability
	// warning is attached.
	warnColumnCount = 10

	// warnRowCount is the row count above which a creation-time warning
	// is attached.
	warnRowCount = 50

	// warnEmptyCellPercent is the empty-cell percentage above which a
	// sparseness warning is attached.
	warnEmptyCellPercent = 30.0
)

// ValidateJSON validates a raw table document against the expected shape and
// the domain rules, returning a verdict with errors, warnings and detected
// dimensions. It never panics past its boundary: every failure becomes an
// entry in the result's error list.
//
// Checks run in order, each aborting on failure: JSON syntax, document
// structure, row/column consistency. Structural checking reports every
// violation it can find in a single pass rather than stopping at the first
// one, so a caller sees all problems at once.
func ValidateJSON(jsonStr string) model.ValidationResult {
	result := model.ValidationResult{IsValid: false}

	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid JSON: %v", err))
		return result
	}
	if trailingData(dec) {
		result.Errors = append(result.Errors, "invalid JSON: unexpected data after document")
		return result
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		result.Errors = append(result.Errors, "top-level value must be a JSON object")
		return result
	}

	if errs := checkDocumentStructure(doc); len(errs) > 0 {
		result.Errors = errs
		return result
	}

	// Structure passed, so the assertions below cannot fail.
	numCols := len(doc["table_structure"].(map[string]any)["columns"].([]any))
	tableData := doc["table_data"].([]any)

	for i, rawRow := range tableData {
		row := rawRow.([]any)
		if len(row) != numCols {
			result.Errors = append(result.Errors,
				fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), numCols))
		}
	}
	if len(result.Errors) > 0 {
		return result
	}

	numRows := len(tableData)
	result.Dimensions = &model.Dimensions{Rows: numRows, Cols: numCols}
	result.Warnings = collectWarnings(tableData, numRows, numCols)
	result.IsValid = true
	return result
}

// checkDocumentStructure verifies the document against the fixed table schema
// and returns every violation found.
func checkDocumentStructure(doc map[string]any) []string {
	var errs []string

	for _, key := range []string{"table_config", "table_structure", "table_data"} {
		if _, ok := doc[key]; !ok {
			errs = append(errs, "missing required field: "+key)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	errs = append(errs, checkTableConfig(doc["table_config"])...)
	errs = append(errs, checkTableStructure(doc["table_structure"])...)
	errs = append(errs, checkTableRows(doc["table_data"])...)
	return errs
}

func checkTableConfig(v any) []string {
	config, ok := v.(map[string]any)
	if !ok {
		return []string{"table_config must be an object"}
	}

	var errs []string

	name, ok := config["table_name"]
	if !ok {
		errs = append(errs, "missing required field: table_config.table_name")
	} else if s, isStr := name.(string); !isStr {
		errs = append(errs, "table_config.table_name must be a string")
	} else if n := utf8.RuneCountInString(s); n < 1 || n > maxNameLength {
		errs = append(errs, fmt.Sprintf("table_config.table_name must be 1-%d characters", maxNameLength))
	}

	id, ok := config["category_id"]
	if !ok {
		errs = append(errs, "missing required field: table_config.category_id")
	} else if n, isInt := asInt(id); !isInt {
		errs = append(errs, "table_config.category_id must be an integer")
	} else if n < 1 {
		errs = append(errs, "table_config.category_id must be 1 or greater")
	}

	if tags, ok := config["tags"]; ok {
		if list, isList := tags.([]any); !isList {
			errs = append(errs, "table_config.tags must be an array of strings")
		} else {
			for i, tag := range list {
				if _, isStr := tag.(string); !isStr {
					errs = append(errs, fmt.Sprintf("table_config.tags[%d] must be a string", i))
				}
			}
		}
	}

	for _, flag := range []string{"auto_detect_sensitive", "auto_detect_urls"} {
		if v, ok := config[flag]; ok {
			if _, isBool := v.(bool); !isBool {
				errs = append(errs, "table_config."+flag+" must be a boolean")
			}
		}
	}

	return errs
}

func checkTableStructure(v any) []string {
	structure, ok := v.(map[string]any)
	if !ok {
		return []string{"table_structure must be an object"}
	}

	rawColumns, ok := structure["columns"]
	if !ok {
		return []string{"missing required field: table_structure.columns"}
	}
	columns, ok := rawColumns.([]any)
	if !ok {
		return []string{"table_structure.columns must be an array"}
	}
	if len(columns) < model.MinTableCols {
		return []string{"table_structure.columns cannot be empty"}
	}
	if len(columns) > model.MaxTableCols {
		return []string{fmt.Sprintf("table_structure.columns: at most %d columns allowed", model.MaxTableCols)}
	}

	var errs []string
	for i, rawCol := range columns {
		col, ok := rawCol.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("column %d must be an object", i+1))
			continue
		}

		name, ok := col["name"]
		if !ok {
			errs = append(errs, fmt.Sprintf("column %d: missing required field: name", i+1))
		} else if s, isStr := name.(string); !isStr {
			errs = append(errs, fmt.Sprintf("column %d: name must be a string", i+1))
		} else if n := utf8.RuneCountInString(s); n < 1 || n > maxNameLength {
			errs = append(errs, fmt.Sprintf("column %d: name must be 1-%d characters", i+1, maxNameLength))
		}

		if typ, ok := col["type"]; ok {
			if s, isStr := typ.(string); !isStr || !model.IsValidColumnTypeString(s) {
				errs = append(errs, fmt.Sprintf("column %d: type must be \"TEXT\" or \"URL\"", i+1))
			}
		}
		if sensitive, ok := col["is_sensitive"]; ok {
			if _, isBool := sensitive.(bool); !isBool {
				errs = append(errs, fmt.Sprintf("column %d: is_sensitive must be a boolean", i+1))
			}
		}
		if desc, ok := col["description"]; ok {
			if _, isStr := desc.(string); !isStr {
				errs = append(errs, fmt.Sprintf("column %d: description must be a string", i+1))
			}
		}
	}
	return errs
}

func checkTableRows(v any) []string {
	rows, ok := v.([]any)
	if !ok {
		return []string{"table_data must be an array"}
	}
	if len(rows) < model.MinTableRows {
		return []string{"table_data cannot be empty"}
	}
	if len(rows) > model.MaxTableRows {
		return []string{fmt.Sprintf("table_data: at most %d rows allowed", model.MaxTableRows)}
	}

	var errs []string
	for i, rawRow := range rows {
		row, ok := rawRow.([]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("row %d must be an array", i+1))
			continue
		}
		for j, cell := range row {
			if _, isStr := cell.(string); !isStr {
				errs = append(errs, fmt.Sprintf("row %d, cell %d must be a string", i+1, j+1))
			}
		}
	}
	return errs
}

// collectWarnings attaches advisory observations to an otherwise valid
// document. Warnings never block ingestion.
func collectWarnings(tableData []any, numRows, numCols int) []string {
	var warnings []string

	if numCols > warnColumnCount {
		warnings = append(warnings,
			fmt.Sprintf("table has %d columns; more than %d may be hard to read", numCols, warnColumnCount))
	}
	if numRows > warnRowCount {
		warnings = append(warnings,
			fmt.Sprintf("table has %d rows; creation may take a while", numRows))
	}

	emptyCells := 0
	for _, rawRow := range tableData {
		for _, cell := range rawRow.([]any) {
			if model.IsBlank(cell.(string)) {
				emptyCells++
			}
		}
	}
	totalCells := numRows * numCols
	if totalCells > 0 {
		emptyPercent := float64(emptyCells) / float64(totalCells) * 100
		if emptyPercent > warnEmptyCellPercent {
			warnings = append(warnings,
				fmt.Sprintf("%.1f%% of cells are empty; consider fewer rows or columns", emptyPercent))
		}
	}

	return warnings
}

// trailingData reports whether dec has unconsumed input after the first
// JSON value. A bare decode accepts "{...} garbage"; the document must be
// the whole input.
func trailingData(dec *json.Decoder) bool {
	return dec.Decode(new(any)) != io.EOF
}

// asInt extracts an integer from a decoded JSON value. Numbers with a
// fractional part are rejected.
func asInt(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}
