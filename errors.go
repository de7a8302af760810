package aitable

import "errors"

var (
	// ErrEmptyTableName indicates a missing or blank table name
	ErrEmptyTableName = errors.New("aitable: table name cannot be empty")

	// ErrTableNameTooLong indicates a table name over the length limit
	ErrTableNameTooLong = errors.New("aitable: table name too long")

	// ErrInvalidTableName indicates a table name with unsupported characters
	ErrInvalidTableName = errors.New("aitable: table name may only contain letters, digits, hyphens and underscores")

	// ErrReservedTableName indicates a table name that is an SQL keyword
	ErrReservedTableName = errors.New("aitable: table name is a reserved SQL keyword")

	// ErrDuplicateTableName indicates a table name that already exists
	ErrDuplicateTableName = errors.New("aitable: table name already exists")

	// ErrNoStore indicates a Manager constructed without a persistence collaborator
	ErrNoStore = errors.New("aitable: no table store configured")

	// ErrUnsupportedCompression indicates a compression type that cannot be
	// used for the requested operation
	ErrUnsupportedCompression = errors.New("aitable: unsupported compression type")

	// ErrNoExportData indicates an export attempt on an empty table
	ErrNoExportData = errors.New("aitable: no data to export")

	// ErrInvalidTableDocument indicates an imported document that failed
	// validation or parsing
	ErrInvalidTableDocument = errors.New("aitable: invalid table document")
)
