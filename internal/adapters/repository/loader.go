package repository

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/portal/internal/domain/model"
	"github.com/xuri/excelize/v2"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLiteTable is the table read from SQLite datasets.
const SQLiteTable = "transfers"

// LoadOption tunes how a dataset file is parsed.
type LoadOption func(*loadSettings)

type loadSettings struct {
	delimiter rune
	sheet     string
}

// WithDelimiter forces the field delimiter for delimited text files.
// Zero keeps the default: tab for .tsv, comma otherwise.
func WithDelimiter(d rune) LoadOption {
	return func(s *loadSettings) {
		if d != 0 {
			s.delimiter = d
		}
	}
}

// WithSheet selects a workbook sheet by name; the first sheet is used otherwise.
func WithSheet(name string) LoadOption {
	return func(s *loadSettings) {
		s.sheet = name
	}
}

// Load reads the dataset at path into an immutable table. The format is
// chosen by extension: .csv/.txt/.tsv, .xlsx, or .db/.sqlite/.sqlite3.
// Every failure is a *LoadError.
func Load(ctx context.Context, path string, opts ...LoadOption) (*model.Table, error) {
	var s loadSettings
	for _, opt := range opts {
		opt(&s)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(path, ErrFileNotFound, err)
		}
		return nil, newLoadError(path, ErrLoad, err)
	}
	if info.IsDir() {
		return nil, newLoadError(path, ErrUnsupportedFormat, errors.New("path is a directory"))
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", "":
		if s.delimiter == 0 {
			s.delimiter = ','
		}
		return loadDelimited(ctx, path, s.delimiter)
	case ".tsv":
		if s.delimiter == 0 {
			s.delimiter = '\t'
		}
		return loadDelimited(ctx, path, s.delimiter)
	case ".xlsx", ".xlsm":
		return loadWorkbook(ctx, path, s.sheet)
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(ctx, path)
	default:
		return nil, newLoadError(path, ErrUnsupportedFormat, fmt.Errorf("extension %q", ext))
	}
}

func loadDelimited(ctx context.Context, path string, delimiter rune) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newLoadError(path, ErrLoad, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, newLoadError(path, ErrMissingColumns, errors.New("file is empty"))
	}
	if err != nil {
		return nil, newLoadError(path, ErrMalformedRow, err)
	}
	b, err := newTableBuilder(path, append([]string(nil), header...))
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, newLoadError(path, ErrLoad, err)
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &LoadError{Path: path, Line: line, Kind: ErrMalformedRow, Err: err}
		}
		line, _ := r.FieldPos(0)
		if err := b.add(line, row); err != nil {
			return nil, err
		}
	}
	return b.table(), nil
}

func loadWorkbook(ctx context.Context, path, sheet string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, newLoadError(path, ErrMalformedRow, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, newLoadError(path, ErrMissingColumns, errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, newLoadError(path, ErrMalformedRow, fmt.Errorf("sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, newLoadError(path, ErrMissingColumns, fmt.Errorf("sheet %q is empty", sheet))
	}

	b, err := newTableBuilder(path, rows[0])
	if err != nil {
		return nil, err
	}
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, newLoadError(path, ErrLoad, err)
		}
		if blankRow(row) {
			continue
		}
		if err := b.add(i+2, row); err != nil {
			return nil, err
		}
	}
	return b.table(), nil
}

func loadSQLite(ctx context.Context, path string) (*model.Table, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, newLoadError(path, ErrLoad, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+SQLiteTable)
	if err != nil {
		return nil, newLoadError(path, ErrMissingColumns, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, newLoadError(path, ErrLoad, err)
	}
	b, err := newTableBuilder(path, cols)
	if err != nil {
		return nil, err
	}

	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	row := make([]string, len(cols))
	line := 0
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return nil, &LoadError{Path: path, Line: line, Kind: ErrMalformedRow, Err: err}
		}
		for i, c := range cells {
			row[i] = c.String // invalid (NULL) scans as ""
		}
		if err := b.add(line, row); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, newLoadError(path, ErrLoad, err)
	}
	return b.table(), nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
