package aitable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/widgetsb/aitable/domain/model"
)

func TestDetectURLColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		values    []string
		threshold float64
		want      bool
	}{
		{
			name:      "all https URLs",
			values:    []string{"https://a.example", "https://b.example", "http://c.example"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "URL as substring",
			values:    []string{"visit www.example for details", "see www.other too"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "TLD suffixes",
			values:    []string{"example.com", "project.io", "docs.dev"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "email addresses",
			values:    []string{"alice@example.com", "bob@example.org"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "ftp and mailto",
			values:    []string{"ftp://host/file", "mailto:me@example.com"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "mostly plain text",
			values:    []string{"hello", "world", "https://one.example"},
			threshold: DefaultURLThreshold,
			want:      false,
		},
		{
			name:      "exactly at threshold",
			values:    []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example", "https://e.example", "https://f.example", "https://g.example", "eight", "nine", "ten"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "leading URLs do not dominate a long column",
			values:    append(repeatValue("https://example.test/page", 10), repeatValue("plain text value", 20)...),
			threshold: DefaultURLThreshold,
			want:      false,
		},
		{
			name:      "long mostly-URL column",
			values:    append(repeatValue("https://example.test/page", 25), repeatValue("plain text value", 5)...),
			threshold: DefaultURLThreshold,
			want:      true,
		},
		{
			name:      "two thirds misses the default threshold",
			values:    []string{"https://a.example", "https://b.example", "plain"},
			threshold: DefaultURLThreshold,
			want:      false,
		},
		{
			name:      "two thirds clears a lowered threshold",
			values:    []string{"https://a.example", "https://b.example", "plain"},
			threshold: 0.6,
			want:      true,
		},
		{
			name:      "all blank",
			values:    []string{"", "   ", "\t"},
			threshold: DefaultURLThreshold,
			want:      false,
		},
		{
			name:      "empty column",
			values:    nil,
			threshold: DefaultURLThreshold,
			want:      false,
		},
		{
			name:      "blanks excluded from sample",
			values:    []string{"", "https://a.example", "", "https://b.example"},
			threshold: DefaultURLThreshold,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectURLColumn(tt.values, tt.threshold))
		})
	}
}

func TestDetectSensitiveColumn(t *testing.T) {
	t.Parallel()

	t.Run("keyword in name short-circuits", func(t *testing.T) {
		t.Parallel()

		names := []string{"password", "user_password", "API_KEY", "Contraseña", "access_token", "api-key"}
		for _, name := range names {
			assert.True(t, DetectSensitiveColumn(name, []string{"plain"}, DefaultSensitiveThreshold),
				"column %q should be sensitive by name", name)
		}
	})

	t.Run("plain names are not sensitive by name", func(t *testing.T) {
		t.Parallel()

		assert.False(t, DetectSensitiveColumn("city", []string{"Tokyo", "Oslo"}, DefaultSensitiveThreshold))
	})

	t.Run("password-like values", func(t *testing.T) {
		t.Parallel()

		values := []string{"Xk9#mQ2p", "tr0ub4dor&3", "hello"}
		assert.True(t, DetectSensitiveColumn("notes", values, DefaultSensitiveThreshold))
	})

	t.Run("ordinary words are not password-like", func(t *testing.T) {
		t.Parallel()

		values := []string{"monday", "tuesday", "wednesday"}
		assert.False(t, DetectSensitiveColumn("day", values, DefaultSensitiveThreshold))
	})

	t.Run("too short or too long values", func(t *testing.T) {
		t.Parallel()

		assert.False(t, DetectSensitiveColumn("x", []string{"a1!"}, DefaultSensitiveThreshold))

		long := make([]byte, 70)
		for i := range long {
			long[i] = 'a'
		}
		assert.False(t, DetectSensitiveColumn("x", []string{string(long) + "1"}, DefaultSensitiveThreshold))
	})

	t.Run("length window counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		// Five characters in six bytes: below the minimum length even
		// though the byte count reaches it.
		values := []string{"ñ1b#2", "ñ1b#2", "ñ1b#2"}
		assert.False(t, DetectSensitiveColumn("notes", values, DefaultSensitiveThreshold))
	})

	t.Run("space hyphen underscore do not count as special", func(t *testing.T) {
		t.Parallel()

		// Letters only plus separators is a single character class.
		assert.False(t, DetectSensitiveColumn("x", []string{"hello-world_foo bar"}, DefaultSensitiveThreshold))
	})

	t.Run("empty column", func(t *testing.T) {
		t.Parallel()

		assert.False(t, DetectSensitiveColumn("notes", nil, DefaultSensitiveThreshold))
	})
}

func TestAutoDetectColumnTypes(t *testing.T) {
	t.Parallel()

	newTable := func(t *testing.T, columns model.TableStructure, rows [][]string) *model.TableData {
		t.Helper()
		config := model.TableConfig{TableName: "t", CategoryID: 1}
		return model.NewTableData(config, columns, rows)
	}

	t.Run("promotes URL and sensitive columns", func(t *testing.T) {
		t.Parallel()

		columns := model.TableStructure{
			model.NewColumnConfig("site", "TEXT", false, ""),
			model.NewColumnConfig("password", "TEXT", false, ""),
			model.NewColumnConfig("city", "TEXT", false, ""),
		}
		table := newTable(t, columns, [][]string{
			{"https://a.example", "Xk9#mQ2p", "Tokyo"},
			{"https://b.example", "tr0ub4dor&3", "Oslo"},
		})

		detected := AutoDetectColumnTypes(columns, table, true, true)

		assert.Equal(t, model.ColumnTypeURL, detected[0].Type)
		assert.True(t, detected[1].IsSensitive)
		assert.Equal(t, model.ColumnTypeText, detected[2].Type)
		assert.False(t, detected[2].IsSensitive)

		// Input is unchanged.
		assert.Equal(t, model.ColumnTypeText, columns[0].Type)
		assert.False(t, columns[1].IsSensitive)
	})

	t.Run("never demotes explicit markings", func(t *testing.T) {
		t.Parallel()

		columns := model.TableStructure{
			model.NewColumnConfig("site", "URL", false, ""),
			model.NewColumnConfig("note", "TEXT", true, ""),
		}
		table := newTable(t, columns, [][]string{
			{"not a link", "plain"},
		})

		detected := AutoDetectColumnTypes(columns, table, true, true)

		assert.Equal(t, model.ColumnTypeURL, detected[0].Type)
		assert.True(t, detected[1].IsSensitive)
	})

	t.Run("disabled detection leaves columns alone", func(t *testing.T) {
		t.Parallel()

		columns := model.TableStructure{
			model.NewColumnConfig("site", "TEXT", false, ""),
			model.NewColumnConfig("password", "TEXT", false, ""),
		}
		table := newTable(t, columns, [][]string{
			{"https://a.example", "Xk9#mQ2p"},
		})

		detected := AutoDetectColumnTypes(columns, table, false, false)

		assert.Equal(t, model.ColumnTypeText, detected[0].Type)
		assert.False(t, detected[1].IsSensitive)
	})
}

func TestSummarizeDetection(t *testing.T) {
	t.Parallel()

	before := model.TableStructure{
		model.NewColumnConfig("site", "TEXT", false, ""),
		model.NewColumnConfig("password", "TEXT", false, ""),
		model.NewColumnConfig("city", "TEXT", false, ""),
	}
	after := model.TableStructure{
		model.NewColumnConfig("site", "URL", false, ""),
		model.NewColumnConfig("password", "TEXT", true, ""),
		model.NewColumnConfig("city", "TEXT", false, ""),
	}

	summary := SummarizeDetection(before, after)

	require.Equal(t, []string{"site"}, summary.URLColumns)
	require.Equal(t, []string{"password"}, summary.SensitiveColumns)
}

func repeatValue(value string, n int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = value
	}
	return values
}
