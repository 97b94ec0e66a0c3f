package repository

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/portal/internal/domain/model"
)

// Canonical column names of the internal schema.
const (
	colFirstName   = "first_name"
	colLastName    = "last_name"
	colOrigin      = "origin_school"
	colDestination = "destination_school"
	colSeason      = "season"
	colRating      = "rating"
	colStars       = "stars"
)

var requiredColumns = []string{colFirstName, colLastName, colOrigin, colDestination, colSeason, colRating, colStars}

// columnAliases maps normalized external header names to canonical ones.
// Both the title-case ("Origin School") and snake-case ("origin_school")
// spellings normalize to the same key.
var columnAliases = map[string]string{
	"first_name":         colFirstName,
	"firstname":          colFirstName,
	"last_name":          colLastName,
	"lastname":           colLastName,
	"origin_school":      colOrigin,
	"origin":             colOrigin,
	"destination_school": colDestination,
	"destination":        colDestination,
	"season":             colSeason,
	"year":               colSeason,
	"rating":             colRating,
	"stars":              colStars,
	"star_rating":        colStars,
}

// nullTokens are cell values read as null, compared case-insensitively.
var nullTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

var errNotInteger = errors.New("not an integer")

// NormalizeHeader lower-cases h and folds spaces and hyphens to underscores.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

// CanonicalColumn resolves an external header to the internal column name.
func CanonicalColumn(header string) (string, bool) {
	c, ok := columnAliases[NormalizeHeader(header)]
	return c, ok
}

func isNull(cell string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// tableBuilder turns header-addressed string rows into transfer records.
type tableBuilder struct {
	path    string
	index   map[string]int
	width   int
	records []model.TransferRecord
}

func newTableBuilder(path string, header []string) (*tableBuilder, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		c, ok := CanonicalColumn(h)
		if !ok {
			continue
		}
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, newLoadError(path, ErrMissingColumns, fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	return &tableBuilder{path: path, index: index, width: len(header)}, nil
}

func (b *tableBuilder) cell(row []string, col string) string {
	i := b.index[col]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// add parses one data row; line is reported in errors.
func (b *tableBuilder) add(line int, row []string) error {
	if len(row) > b.width {
		return &LoadError{Path: b.path, Line: line, Kind: ErrMalformedRow,
			Err: fmt.Errorf("expected %d fields, got %d", b.width, len(row))}
	}

	rec := model.TransferRecord{
		FirstName: nullableText(b.cell(row, colFirstName)),
		LastName:  nullableText(b.cell(row, colLastName)),
	}
	if v := b.cell(row, colOrigin); !isNull(v) {
		rec.Origin = model.StringPtr(schoolName(v))
	}
	if v := b.cell(row, colDestination); !isNull(v) {
		rec.Destination = model.StringPtr(schoolName(v))
	}

	season, err := parseInt(b.cell(row, colSeason))
	if err != nil {
		return &LoadError{Path: b.path, Line: line, Column: colSeason, Kind: ErrMalformedRow, Err: err}
	}
	if season == nil {
		return &LoadError{Path: b.path, Line: line, Column: colSeason, Kind: ErrMalformedRow, Err: errors.New("season is required")}
	}
	rec.Season = *season

	if rec.Rating, err = parseFloat(b.cell(row, colRating)); err != nil {
		return &LoadError{Path: b.path, Line: line, Column: colRating, Kind: ErrMalformedRow, Err: err}
	}
	if rec.Stars, err = parseInt(b.cell(row, colStars)); err != nil {
		return &LoadError{Path: b.path, Line: line, Column: colStars, Kind: ErrMalformedRow, Err: err}
	}

	b.records = append(b.records, rec)
	return nil
}

func (b *tableBuilder) table() *model.Table {
	return model.NewTable(b.path, b.records)
}

// schoolName normalizes a school cell once so the name listed by the picker
// is exactly the name a query matches.
func schoolName(v string) string {
	return strings.TrimSpace(v)
}

func nullableText(v string) string {
	if isNull(v) {
		return ""
	}
	return v
}

// parseInt accepts integers and integral floats such as "2023.0".
func parseInt(v string) (*int, error) {
	if isNull(v) {
		return nil, nil
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%q: %w", v, errNotInteger)
	}
	n := int(f)
	return &n, nil
}

func parseFloat(v string) (*float64, error) {
	if isNull(v) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, fmt.Errorf("%q: not a number", v)
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}
