package aitable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/widgetsb/aitable/domain/model"
)

// ImportTable reads a table document file, such as one written by
// ExportTable in the JSON format, and returns the parsed table. The
// compression layer is chosen from the file extension, so a round trip
// through ExportTable needs no extra configuration. The document goes
// through the same validation as freshly generated JSON.
func ImportTable(path string) (table *model.TableData, err error) {
	file, err := os.Open(path) //nolint:gosec // callers choose the import path
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return ReadTableDocument(file, DetectCompressionType(path))
}

// ReadTableDocument reads a table document from r, decompressing with the
// given compression type, then validates and parses it. Unlike the export
// side, bzip2 input is accepted here: the standard library ships a bzip2
// reader but no writer.
func ReadTableDocument(r io.Reader, compression CompressionType) (*model.TableData, error) {
	reader, cleanup, err := compression.NewReader(r)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if cerr := cleanup(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table document: %w", err)
	}

	doc := string(data)
	if verdict := ValidateJSON(doc); !verdict.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTableDocument, strings.Join(verdict.Errors, "; "))
	}

	table, errs := ParseJSON(doc)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTableDocument, strings.Join(errs, "; "))
	}
	return table, nil
}
