package model

// Table shape limits. The validator enforces them on imported JSON and prompt
// construction clamps to them, so a generated prompt can never ask for a table
// the validator would reject.
const (
	// MinTableRows is the smallest supported row count.
	MinTableRows = 1
	// MaxTableRows is the largest supported row count.
	MaxTableRows = 100
	// MinTableCols is the smallest supported column count.
	MinTableCols = 1
	// MaxTableCols is the largest supported column count.
	MaxTableCols = 20
)

// PromptColumn describes one column in a prompt request.
type PromptColumn struct {
	// Name is the column name the AI must reproduce verbatim.
	Name string
	// IsURL requests URL-typed values for this column.
	IsURL bool
	// IsSensitive marks the column as sensitive in the generated schema.
	IsSensitive bool
}

// PromptConfig parameterizes prompt generation. Every recognized field is
// enumerated here; construct with NewPromptConfig so the shape bounds are
// applied once, at construction time. The generator itself never re-validates.
type PromptConfig struct {
	// TableName is the table the AI should generate data for.
	TableName string
	// CategoryID is embedded verbatim into the requested JSON.
	CategoryID int
	// CategoryName is shown to the AI for context only.
	CategoryName string
	// UserContext is free-form instructions from the user.
	UserContext string
	// ExpectedRows is the exact number of rows requested, clamped to
	// [MinTableRows, MaxTableRows].
	ExpectedRows int
	// ExpectedCols is the exact number of columns requested, clamped to
	// [MinTableCols, MaxTableCols].
	ExpectedCols int
	// Columns describes the requested column structure.
	Columns []PromptColumn
	// Tags is embedded into the requested table_config.
	Tags []string
}

// NewPromptConfig creates a PromptConfig with the expected shape clamped to
// the supported table limits.
func NewPromptConfig(tableName string, categoryID int, categoryName, userContext string, expectedRows, expectedCols int, columns []PromptColumn, tags []string) PromptConfig {
	return PromptConfig{
		TableName:    tableName,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		UserContext:  userContext,
		ExpectedRows: clamp(expectedRows, MinTableRows, MaxTableRows),
		ExpectedCols: clamp(expectedCols, MinTableCols, MaxTableCols),
		Columns:      columns,
		Tags:         tags,
	}
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
