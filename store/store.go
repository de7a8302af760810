package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/widgetsb/aitable"
)

// dataTablePrefix namespaces per-table data tables away from the metadata
// schema.
const dataTablePrefix = "tbl_"

// schema holds the metadata tables. Data tables are created per stored
// table at ingestion time.
const schema = `
CREATE TABLE IF NOT EXISTS sidebar_tables (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sidebar_columns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	table_id INTEGER NOT NULL REFERENCES sidebar_tables(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	is_sensitive INTEGER NOT NULL DEFAULT 0,
	is_url INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sidebar_tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	table_id INTEGER NOT NULL REFERENCES sidebar_tables(id) ON DELETE CASCADE,
	tag TEXT NOT NULL
);
`

// Store persists tables in a SQLite database. It implements
// aitable.TableStore.
type Store struct {
	db     *sql.DB
	cipher Cipher
}

var _ aitable.TableStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCipher sets the cipher used for sensitive cell values. The default is
// NoopCipher.
func WithCipher(c Cipher) Option {
	return func(s *Store) {
		s.cipher = c
	}
}

// Open opens (creating if needed) a SQLite database at dsn and prepares the
// metadata schema. Use ":memory:" for an in-memory database.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases coherent and avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to enable foreign keys: %w", err), db.Close())
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create schema: %w", err), db.Close())
	}

	s := &Store{db: db, cipher: NoopCipher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying database for ad-hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateTable persists a table: one sidebar_tables row, its columns and
// tags, and a dedicated data table holding the cell values. Sensitive
// columns are encrypted with the configured cipher before insert. The whole
// operation runs in a single transaction.
func (s *Store) CreateTable(ctx context.Context, req aitable.CreateTableRequest) (aitable.CreateTableResult, error) {
	result := aitable.CreateTableResult{TableName: req.TableName}

	if len(req.ColumnNames) == 0 {
		result.Errors = append(result.Errors, "no columns provided")
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var tableID int64
	res, err := tx.ExecContext(ctx,
		"INSERT INTO sidebar_tables (category_id, name) VALUES (?, ?)",
		req.CategoryID, req.TableName)
	if err != nil {
		if isUniqueViolation(err) {
			result.Errors = append(result.Errors, fmt.Sprintf("table %q already exists", req.TableName))
			return result, nil
		}
		return result, fmt.Errorf("failed to register table: %w", err)
	}
	if tableID, err = res.LastInsertId(); err != nil {
		return result, fmt.Errorf("failed to get table id: %w", err)
	}

	sensitive := indexSet(req.SensitiveColumns)
	urls := indexSet(req.URLColumns)

	colStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO sidebar_columns (table_id, position, name, is_sensitive, is_url) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return result, fmt.Errorf("failed to prepare column insert: %w", err)
	}
	defer colStmt.Close()

	for i, name := range req.ColumnNames {
		_, isSensitive := sensitive[i]
		_, isURL := urls[i]
		if _, err := colStmt.ExecContext(ctx, tableID, i, name, isSensitive, isURL); err != nil {
			return result, fmt.Errorf("failed to insert column %q: %w", name, err)
		}
	}

	for _, tag := range req.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sidebar_tags (table_id, tag) VALUES (?, ?)", tableID, tag); err != nil {
			return result, fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}

	inserted, err := s.createDataTable(ctx, tx, req, sensitive)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit: %w", err)
	}

	result.Success = true
	result.ItemsCreated = inserted
	return result, nil
}

// createDataTable creates the per-table data table and inserts every row,
// returning the number of rows inserted.
func (s *Store) createDataTable(ctx context.Context, tx *sql.Tx, req aitable.CreateTableRequest, sensitive map[int]struct{}) (int, error) {
	columnDefs := make([]string, len(req.ColumnNames))
	placeholders := make([]string, len(req.ColumnNames))
	for i, name := range req.ColumnNames {
		columnDefs[i] = fmt.Sprintf("%s TEXT", quoteIdent(name))
		placeholders[i] = "?"
	}

	dataTable := quoteIdent(dataTablePrefix + req.TableName)
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", dataTable, strings.Join(columnDefs, ", "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("failed to create data table: %w", err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", dataTable, strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for rowIdx, row := range req.TableData {
		args := make([]any, len(req.ColumnNames))
		for i := range req.ColumnNames {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			if _, isSensitive := sensitive[i]; isSensitive {
				encrypted, err := s.cipher.Encrypt(value)
				if err != nil {
					return inserted, fmt.Errorf("failed to encrypt row %d: %w", rowIdx+1, err)
				}
				value = encrypted
			}
			args[i] = value
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("failed to insert row %d: %w", rowIdx+1, err)
		}
		inserted++
	}
	return inserted, nil
}

// StoredColumn describes one column of a stored table.
type StoredColumn struct {
	Name        string
	IsSensitive bool
	IsURL       bool
}

// StoredTable is a table read back from the store, with sensitive values
// decrypted.
type StoredTable struct {
	Name       string
	CategoryID int
	Columns    []StoredColumn
	Tags       []string
	Rows       [][]string
}

// ReadTable loads a stored table by name. It returns sql.ErrNoRows when the
// table does not exist.
func (s *Store) ReadTable(ctx context.Context, name string) (*StoredTable, error) {
	var (
		tableID int64
		table   StoredTable
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, category_id, name FROM sidebar_tables WHERE name = ? COLLATE NOCASE", name).
		Scan(&tableID, &table.CategoryID, &table.Name)
	if err != nil {
		return nil, err
	}

	table.Columns, err = s.readColumns(ctx, tableID)
	if err != nil {
		return nil, err
	}
	table.Tags, err = s.readTags(ctx, tableID)
	if err != nil {
		return nil, err
	}
	table.Rows, err = s.readRows(ctx, table.Name, table.Columns)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *Store) readColumns(ctx context.Context, tableID int64) ([]StoredColumn, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, is_sensitive, is_url FROM sidebar_columns WHERE table_id = ? ORDER BY position", tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	defer rows.Close()

	var columns []StoredColumn
	for rows.Next() {
		var col StoredColumn
		if err := rows.Scan(&col.Name, &col.IsSensitive, &col.IsURL); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (s *Store) readTags(ctx context.Context, tableID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag FROM sidebar_tags WHERE table_id = ? ORDER BY id", tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) readRows(ctx context.Context, name string, columns []StoredColumn) ([][]string, error) {
	selectCols := make([]string, len(columns))
	for i, col := range columns {
		selectCols[i] = quoteIdent(col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(selectCols, ", "), quoteIdent(dataTablePrefix+name))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, col := range columns {
			if col.IsSensitive {
				decrypted, err := s.cipher.Decrypt(values[i])
				if err != nil {
					return nil, fmt.Errorf("failed to decrypt column %q: %w", col.Name, err)
				}
				values[i] = decrypted
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// ListTableNames returns the names of all stored tables in creation order.
func (s *Store) ListTableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sidebar_tables ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteTable removes a stored table, its metadata and its data table. It
// returns sql.ErrNoRows when the table does not exist.
func (s *Store) DeleteTable(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var canonical string
	err = tx.QueryRowContext(ctx,
		"SELECT name FROM sidebar_tables WHERE name = ? COLLATE NOCASE", name).Scan(&canonical)
	if err != nil {
		return err
	}

	// Column and tag rows cascade from the metadata delete.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sidebar_tables WHERE name = ?", canonical); err != nil {
		return fmt.Errorf("failed to delete table metadata: %w", err)
	}
	dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(dataTablePrefix+canonical))
	if _, err := tx.ExecContext(ctx, dropSQL); err != nil {
		return fmt.Errorf("failed to drop data table: %w", err)
	}

	return tx.Commit()
}

// quoteIdent quotes a SQL identifier with brackets, escaping any closing
// bracket in the name.
func quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func indexSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return set
}
