package aitable

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/widgetsb/aitable/domain/model"
)

// Default detection thresholds: the fraction of non-blank values that must
// match before a column is classified.
const (
	DefaultURLThreshold       = 0.7
	DefaultSensitiveThreshold = 0.5

	// detectSampleSize caps how many non-blank values the password
	// pattern check inspects per column. URL detection is cheap and
	// reads the whole column.
	detectSampleSize = 10

	minPasswordLength = 6
	maxPasswordLength = 64
)

// urlPatterns match anywhere in a cell value. Order mirrors likelihood:
// explicit schemes first, then common hosts and TLD suffixes, then email
// and legacy schemes.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://`),
	regexp.MustCompile(`www\.`),
	regexp.MustCompile(`\.com`),
	regexp.MustCompile(`\.org`),
	regexp.MustCompile(`\.net`),
	regexp.MustCompile(`\.io`),
	regexp.MustCompile(`\.dev`),
	regexp.MustCompile(`@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`ftp://`),
	regexp.MustCompile(`mailto:`),
}

// sensitiveKeywords short-circuit sensitive detection when one appears in a
// column name. The list covers English and Spanish credential vocabulary.
var sensitiveKeywords = []string{
	"password", "pass", "pwd", "contraseña", "clave",
	"api_key", "apikey", "api-key", "token", "secret", "secreto",
	"cvv", "pin", "ssn", "credit_card", "tarjeta",
	"private_key", "private-key", "auth", "credential",
	"secret_key", "access_token", "refresh_token",
}

// DetectURLColumn reports whether a column's values look like URLs. Every
// non-blank value is checked and the matching fraction must reach
// threshold. Columns with no non-blank values are never URL columns.
func DetectURLColumn(values []string, threshold float64) bool {
	nonBlank := 0
	matches := 0
	for _, v := range values {
		if model.IsBlank(v) {
			continue
		}
		nonBlank++
		if looksLikeURL(v) {
			matches++
		}
	}
	if nonBlank == 0 {
		return false
	}
	return float64(matches)/float64(nonBlank) >= threshold
}

// DetectSensitiveColumn reports whether a column likely holds credentials.
// A sensitive keyword in the column name decides immediately; otherwise up
// to ten non-blank values are sampled and the column is sensitive when the
// fraction of password-like values reaches threshold.
func DetectSensitiveColumn(name string, values []string, threshold float64) bool {
	lower := strings.ToLower(name)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	sample := sampleNonBlank(values, detectSampleSize)
	if len(sample) == 0 {
		return false
	}

	matches := 0
	for _, v := range sample {
		if looksLikePassword(v) {
			matches++
		}
	}
	return float64(matches)/float64(len(sample)) >= threshold
}

// AutoDetectColumnTypes returns a copy of columns with URL types and
// sensitivity flags promoted according to the table's data. Detection only
// promotes: a column already marked URL or sensitive keeps its marking even
// when the data does not support it.
func AutoDetectColumnTypes(columns model.TableStructure, table *model.TableData, enableURL, enableSensitive bool) model.TableStructure {
	out := make(model.TableStructure, len(columns))
	copy(out, columns)

	for i := range out {
		values := columnValues(table, i)
		if enableURL && out[i].Type != model.ColumnTypeURL && DetectURLColumn(values, DefaultURLThreshold) {
			out[i].Type = model.ColumnTypeURL
		}
		if enableSensitive && !out[i].IsSensitive && DetectSensitiveColumn(out[i].Name, values, DefaultSensitiveThreshold) {
			out[i].IsSensitive = true
		}
	}
	return out
}

// DetectionSummary describes what auto detection changed on a table.
type DetectionSummary struct {
	URLColumns       []string
	SensitiveColumns []string
}

// SummarizeDetection compares a structure before and after detection and
// lists the columns whose classification changed.
func SummarizeDetection(before, after model.TableStructure) DetectionSummary {
	var summary DetectionSummary
	for i := range after {
		if i >= len(before) {
			break
		}
		if after[i].Type == model.ColumnTypeURL && before[i].Type != model.ColumnTypeURL {
			summary.URLColumns = append(summary.URLColumns, after[i].Name)
		}
		if after[i].IsSensitive && !before[i].IsSensitive {
			summary.SensitiveColumns = append(summary.SensitiveColumns, after[i].Name)
		}
	}
	return summary
}

func looksLikeURL(value string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	for _, pattern := range urlPatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// looksLikePassword applies a length window and a character-class mix rule:
// at least two of digits, letters, and special characters must be present.
func looksLikePassword(value string) bool {
	trimmed := strings.TrimSpace(value)
	n := utf8.RuneCountInString(trimmed)
	if n < minPasswordLength || n > maxPasswordLength {
		return false
	}

	var hasDigit, hasLetter, hasSpecial bool
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		case r != ' ' && r != '-' && r != '_':
			hasSpecial = true
		}
	}

	classes := 0
	for _, present := range []bool{hasDigit, hasLetter, hasSpecial} {
		if present {
			classes++
		}
	}
	return classes >= 2
}

func sampleNonBlank(values []string, limit int) []string {
	sample := make([]string, 0, limit)
	for _, v := range values {
		if model.IsBlank(v) {
			continue
		}
		sample = append(sample, v)
		if len(sample) == limit {
			break
		}
	}
	return sample
}

func columnValues(table *model.TableData, col int) []string {
	rows := table.Rows()
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			values = append(values, row[col])
		}
	}
	return values
}
