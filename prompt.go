package aitable

import (
	"fmt"
	"strings"

	"github.com/widgetsb/aitable/domain/model"
)

// GeneratePrompt renders an instruction prompt asking an AI assistant to
// produce a table document matching cfg. The prompt pins the exact JSON
// shape the validator accepts: fixed top-level keys, the requested column
// list in order, and the requested row count.
func GeneratePrompt(cfg model.PromptConfig) string {
	var b strings.Builder

	b.WriteString("Generate a data table in JSON format with the following requirements.\n\n")

	fmt.Fprintf(&b, "Table name: %s\n", cfg.TableName)
	fmt.Fprintf(&b, "Category ID: %d\n", cfg.CategoryID)
	if cfg.CategoryName != "" {
		fmt.Fprintf(&b, "Category: %s\n", cfg.CategoryName)
	}
	if cfg.UserContext != "" {
		fmt.Fprintf(&b, "Context: %s\n", cfg.UserContext)
	}
	if len(cfg.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(cfg.Tags, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "The table must have exactly %d columns and exactly %d rows of data.\n\n",
		cfg.ExpectedCols, cfg.ExpectedRows)

	b.WriteString("Columns, in order:\n")
	for i, col := range cfg.Columns {
		fmt.Fprintf(&b, "%d. %s", i+1, col.Name)
		switch {
		case col.IsURL:
			b.WriteString(" (every value must be a valid URL)")
		case col.IsSensitive:
			b.WriteString(" (sensitive: use realistic placeholder values, never real credentials)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Respond with a single JSON object and nothing else. ")
	b.WriteString("Use exactly this structure, with no additional fields:\n\n")
	b.WriteString(exampleDocument(cfg))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Every cell value must be a string.\n")
	fmt.Fprintf(&b, "- Every row must have exactly %d values, one per column, in column order.\n", cfg.ExpectedCols)
	b.WriteString("- Do not wrap the JSON in markdown code fences or add commentary.\n")

	return b.String()
}

// ExampleJSON returns a minimal well-formed table document, useful for
// showing the expected shape in documentation or UI help text.
func ExampleJSON() string {
	cfg := model.NewPromptConfig("example_table", 1, "", "", 2, 2,
		[]model.PromptColumn{{Name: "name"}, {Name: "website", IsURL: true}}, nil)
	return exampleDocument(cfg)
}

// exampleDocument renders the literal JSON skeleton for cfg with one example
// row. URL columns get a URL-shaped example value so the assistant mirrors
// the format.
func exampleDocument(cfg model.PromptConfig) string {
	var b strings.Builder

	b.WriteString("{\n")
	b.WriteString("  \"table_config\": {\n")
	fmt.Fprintf(&b, "    \"table_name\": %q,\n", cfg.TableName)
	fmt.Fprintf(&b, "    \"category_id\": %d,\n", cfg.CategoryID)
	b.WriteString("    \"tags\": [")
	for i, tag := range cfg.Tags {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", tag)
	}
	b.WriteString("]\n")
	b.WriteString("  },\n")

	b.WriteString("  \"table_structure\": {\n")
	b.WriteString("    \"columns\": [\n")
	for i, col := range cfg.Columns {
		fmt.Fprintf(&b, "      {\"name\": %q, \"type\": %q, \"is_sensitive\": %t}",
			col.Name, columnTypeName(col), col.IsSensitive)
		if i < len(cfg.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ]\n")
	b.WriteString("  },\n")

	b.WriteString("  \"table_data\": [\n")
	b.WriteString("    [")
	for i, col := range cfg.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", exampleCell(col))
	}
	b.WriteString("]\n")
	b.WriteString("  ]\n")
	b.WriteString("}")

	return b.String()
}

func columnTypeName(col model.PromptColumn) string {
	if col.IsURL {
		return model.ColumnTypeURL.String()
	}
	return model.ColumnTypeText.String()
}

func exampleCell(col model.PromptColumn) string {
	if col.IsURL {
		return "https://example.com"
	}
	return col.Name + " sample"
}
