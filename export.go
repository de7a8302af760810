package aitable

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"github.com/widgetsb/aitable/domain/model"
)

// ExportFormat represents the output file format for a table export.
type ExportFormat int

const (
	// ExportFormatCSV represents CSV output format
	ExportFormatCSV ExportFormat = iota
	// ExportFormatTSV represents TSV output format
	ExportFormatTSV
	// ExportFormatJSON represents the table document JSON format, the
	// same shape ValidateJSON accepts
	ExportFormatJSON
	// ExportFormatJSONRecords represents JSON as an array of
	// column-name-keyed objects, one per row
	ExportFormatJSONRecords
	// ExportFormatXLSX represents Excel XLSX output format
	ExportFormatXLSX
	// ExportFormatParquet represents Apache Parquet output format
	ExportFormatParquet
)

// String returns the string representation of ExportFormat
func (f ExportFormat) String() string {
	switch f {
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	case ExportFormatJSON, ExportFormatJSONRecords:
		return "json"
	case ExportFormatXLSX:
		return "xlsx"
	case ExportFormatParquet:
		return "parquet"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	return "." + f.String()
}

// ExportOptions configures how a table is exported to a file.
//
// Example:
//
//	options := NewExportOptions().
//		WithFormat(ExportFormatTSV).
//		WithCompression(CompressionGZ)
//
//	err := ExportTable(table, "./output", options)
type ExportOptions struct {
	// Format specifies the output file format
	Format ExportFormat
	// Compression specifies the compression type
	Compression CompressionType
	// MaskSensitive replaces sensitive column values with asterisks
	MaskSensitive bool
}

// NewExportOptions creates default export options (CSV, no compression,
// sensitive values written as-is).
func NewExportOptions() ExportOptions {
	return ExportOptions{
		Format:      ExportFormatCSV,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
func (o ExportOptions) WithFormat(format ExportFormat) ExportOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to the output file. XLSX and Parquet are
// already compressed containers and reject an extra compression layer.
func (o ExportOptions) WithCompression(compression CompressionType) ExportOptions {
	o.Compression = compression
	return o
}

// WithMaskSensitive masks values in sensitive columns with asterisks.
func (o ExportOptions) WithMaskSensitive(mask bool) ExportOptions {
	o.MaskSensitive = mask
	return o
}

// FileExtension returns the complete file extension including compression
func (o ExportOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}

// ExportTable writes a table to outputDir as a single file named after the
// table. The file name is the table name plus the format and compression
// extensions.
func ExportTable(table *model.TableData, outputDir string, opts ...ExportOptions) error {
	options := NewExportOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	if table == nil || table.RowsCount() == 0 {
		return ErrNoExportData
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, table.Config().TableName+options.FileExtension())
	file, err := os.Create(outputPath) //nolint:gosec // path is built from a validated table name
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := WriteTable(file, table, options)
	closeErr := file.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// WriteTable writes a table to w in the configured format. Container
// formats (XLSX, Parquet) cannot be combined with a compression layer.
func WriteTable(w io.Writer, table *model.TableData, options ExportOptions) error {
	if table == nil || table.RowsCount() == 0 {
		return ErrNoExportData
	}

	isContainer := options.Format == ExportFormatXLSX || options.Format == ExportFormatParquet
	if isContainer && options.Compression != CompressionNone {
		return fmt.Errorf("%w: %s files cannot be further compressed",
			ErrUnsupportedCompression, options.Format)
	}

	rows := table.Rows()
	if options.MaskSensitive {
		rows = maskSensitiveCells(rows, table.Structure().SensitiveIndices())
	}
	header := table.Structure().ColumnNames()

	writer, cleanup, err := options.Compression.NewWriter(w)
	if err != nil {
		return err
	}

	switch options.Format {
	case ExportFormatCSV:
		err = writeDelimited(writer, header, rows, ',')
	case ExportFormatTSV:
		err = writeDelimited(writer, header, rows, '\t')
	case ExportFormatJSON:
		err = writeJSONDocument(writer, table, rows)
	case ExportFormatJSONRecords:
		err = writeJSONRecords(writer, header, rows)
	case ExportFormatXLSX:
		err = writeXLSX(writer, header, rows)
	case ExportFormatParquet:
		err = writeParquet(writer, header, rows)
	default:
		err = fmt.Errorf("aitable: unsupported export format: %v", options.Format)
	}

	if err != nil {
		_ = cleanup()
		return err
	}
	return cleanup()
}

func writeDelimited(w io.Writer, header []string, rows [][]string, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSONDocument emits the same document shape ValidateJSON accepts, so
// an export can round-trip through the pipeline.
func writeJSONDocument(w io.Writer, table *model.TableData, rows [][]string) error {
	type columnDoc struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		IsSensitive bool   `json:"is_sensitive"`
		Description string `json:"description,omitempty"`
	}

	columns := make([]columnDoc, 0, table.ColsCount())
	for _, col := range table.Structure() {
		columns = append(columns, columnDoc{
			Name:        col.Name,
			Type:        col.Type.String(),
			IsSensitive: col.IsSensitive,
			Description: col.Description,
		})
	}

	doc := map[string]any{
		"table_config": map[string]any{
			"table_name":  table.Config().TableName,
			"category_id": table.Config().CategoryID,
			"tags":        table.Config().Tags,
		},
		"table_structure": map[string]any{
			"columns": columns,
		},
		"table_data": rows,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeJSONRecords(w io.Writer, header []string, rows [][]string) error {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeXLSX(w io.Writer, header []string, rows [][]string) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	sheet := file.GetSheetName(0)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// writeParquet builds an all-string Arrow table and writes it as a single
// row group.
func writeParquet(w io.Writer, header []string, rows [][]string) error {
	pool := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for _, row := range rows {
		for col := range header {
			sb := builder.Field(col).(*array.StringBuilder)
			if col < len(row) {
				sb.Append(row[col])
			} else {
				sb.AppendNull()
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	arrowTable := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer arrowTable.Release()

	if err := pqarrow.WriteTable(arrowTable, w, arrowTable.NumRows(), nil, pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}

func maskSensitiveCells(rows [][]string, sensitiveCols []int) [][]string {
	if len(sensitiveCols) == 0 {
		return rows
	}
	sensitive := make(map[int]struct{}, len(sensitiveCols))
	for _, col := range sensitiveCols {
		sensitive[col] = struct{}{}
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		copy(out[i], row)
		for col := range row {
			if _, ok := sensitive[col]; ok && !model.IsBlank(row[col]) {
				out[i][col] = "********"
			}
		}
	}
	return out
}
