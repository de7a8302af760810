package aitable

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeDocument builds a well-formed table document with the given shape.
func makeDocument(t *testing.T, cols, rows int) string {
	t.Helper()

	columns := make([]map[string]any, cols)
	for i := range columns {
		columns[i] = map[string]any{
			"name":         fmt.Sprintf("col_%d", i+1),
			"type":         "TEXT",
			"is_sensitive": false,
		}
	}
	data := make([][]string, rows)
	for i := range data {
		row := make([]string, cols)
		for j := range row {
			row[j] = fmt.Sprintf("value %d-%d", i+1, j+1)
		}
		data[i] = row
	}

	doc := map[string]any{
		"table_config": map[string]any{
			"table_name":  "test_table",
			"category_id": 1,
			"tags":        []string{"demo"},
		},
		"table_structure": map[string]any{"columns": columns},
		"table_data":      data,
	}

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

func TestValidateJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(makeDocument(t, 3, 5))

		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.Empty(t, result.Warnings)
		require.NotNil(t, result.Dimensions)
		assert.Equal(t, 5, result.Dimensions.Rows)
		assert.Equal(t, 3, result.Dimensions.Cols)
	})

	t.Run("validation is deterministic", func(t *testing.T) {
		t.Parallel()

		doc := makeDocument(t, 3, 5)
		first := ValidateJSON(doc)
		second := ValidateJSON(doc)

		assert.Equal(t, first, second)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(`{"table_config": `)

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "invalid JSON")
		assert.Nil(t, result.Dimensions)
	})

	t.Run("trailing data after the document", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(makeDocument(t, 2, 2) + " trailing")

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "unexpected data after document")
	})

	t.Run("top-level array", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(`[1, 2, 3]`)

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "must be a JSON object")
	})

	t.Run("missing top-level fields", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(`{}`)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "missing required field: table_config")
		assert.Contains(t, result.Errors, "missing required field: table_structure")
		assert.Contains(t, result.Errors, "missing required field: table_data")
	})

	t.Run("reports all structural violations at once", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"table_config": {"table_name": "", "category_id": 0},
			"table_structure": {"columns": [{"name": "a"}]},
			"table_data": [["x"]]
		}`
		result := ValidateJSON(doc)

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 2)
		assert.Contains(t, result.Errors[0], "table_name")
		assert.Contains(t, result.Errors[1], "category_id")
	})

	t.Run("table name boundaries", func(t *testing.T) {
		t.Parallel()

		longName := strings.Repeat("a", 51)
		doc := fmt.Sprintf(`{
			"table_config": {"table_name": %q, "category_id": 1},
			"table_structure": {"columns": [{"name": "a"}]},
			"table_data": [["x"]]
		}`, longName)

		result := ValidateJSON(doc)
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "1-50 characters")

		okName := strings.Repeat("a", 50)
		doc = fmt.Sprintf(`{
			"table_config": {"table_name": %q, "category_id": 1},
			"table_structure": {"columns": [{"name": "a"}]},
			"table_data": [["x"]]
		}`, okName)
		assert.True(t, ValidateJSON(doc).IsValid)
	})

	t.Run("category id must be a positive integer", func(t *testing.T) {
		t.Parallel()

		for _, badID := range []string{`0`, `-3`, `1.5`, `"7"`, `null`} {
			doc := fmt.Sprintf(`{
				"table_config": {"table_name": "t", "category_id": %s},
				"table_structure": {"columns": [{"name": "a"}]},
				"table_data": [["x"]]
			}`, badID)
			result := ValidateJSON(doc)
			assert.False(t, result.IsValid, "category_id %s should be rejected", badID)
			assert.Contains(t, result.Errors[0], "category_id")
		}
	})

	t.Run("column count boundaries", func(t *testing.T) {
		t.Parallel()

		assert.True(t, ValidateJSON(makeDocument(t, 20, 1)).IsValid)

		result := ValidateJSON(makeDocument(t, 21, 1))
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors[0], "at most 20 columns")
	})

	t.Run("row count boundaries", func(t *testing.T) {
		t.Parallel()

		assert.True(t, ValidateJSON(makeDocument(t, 2, 100)).IsValid)

		result := ValidateJSON(makeDocument(t, 2, 101))
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors[0], "at most 100 rows")
	})

	t.Run("empty columns and rows", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"table_config": {"table_name": "t", "category_id": 1},
			"table_structure": {"columns": []},
			"table_data": []
		}`
		result := ValidateJSON(doc)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "table_structure.columns cannot be empty")
		assert.Contains(t, result.Errors, "table_data cannot be empty")
	})

	t.Run("invalid column type", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"table_config": {"table_name": "t", "category_id": 1},
			"table_structure": {"columns": [{"name": "a", "type": "NUMBER"}]},
			"table_data": [["x"]]
		}`
		result := ValidateJSON(doc)

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], `type must be "TEXT" or "URL"`)
	})

	t.Run("non-string cell", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"table_config": {"table_name": "t", "category_id": 1},
			"table_structure": {"columns": [{"name": "a"}]},
			"table_data": [[42]]
		}`
		result := ValidateJSON(doc)

		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors[0], "row 1, cell 1 must be a string")
	})

	t.Run("row length mismatch is one-indexed", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"table_config": {"table_name": "t", "category_id": 1},
			"table_structure": {"columns": [{"name": "a"}, {"name": "b"}]},
			"table_data": [["x", "y"], ["only one"], ["x", "y", "z"]]
		}`
		result := ValidateJSON(doc)

		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, "row 2 has 1 columns, expected 2", result.Errors[0])
		assert.Equal(t, "row 3 has 3 columns, expected 2", result.Errors[1])
	})

	t.Run("warning for wide tables", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(makeDocument(t, 11, 2))

		assert.True(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "11 columns")
	})

	t.Run("warning for long tables", func(t *testing.T) {
		t.Parallel()

		result := ValidateJSON(makeDocument(t, 2, 51))

		assert.True(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "51 rows")
	})

	t.Run("warning for sparse tables", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"table_config": {"table_name": "t", "category_id": 1},
			"table_structure": {"columns": [{"name": "a"}, {"name": "b"}]},
			"table_data": [["x", ""], ["", "  "], ["x", "y"]]
		}`
		result := ValidateJSON(doc)

		assert.True(t, result.IsValid)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "50.0% of cells are empty")
	})

	t.Run("summary strings", func(t *testing.T) {
		t.Parallel()

		valid := ValidateJSON(makeDocument(t, 3, 5))
		assert.Equal(t, "valid JSON: 5x3", valid.Summary())

		invalid := ValidateJSON(`{}`)
		assert.Equal(t, "invalid JSON: 3 error(s)", invalid.Summary())
	})
}
