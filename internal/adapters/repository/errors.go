package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for dataset loading. Every *LoadError matches ErrLoad.
var (
	ErrLoad              = errors.New("dataset load failed")
	ErrFileNotFound      = errors.New("dataset file not found")
	ErrMissingColumns    = errors.New("dataset is missing required columns")
	ErrMalformedRow      = errors.New("malformed dataset row")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// LoadError describes why a dataset could not be loaded. Line is 1-based
// and zero when the failure is not tied to a row.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Kind   error
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes ErrLoad, the kind and the cause to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	errs := []error{ErrLoad, e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newLoadError(path string, kind, err error) *LoadError {
	return &LoadError{Path: path, Kind: kind, Err: err}
}

// errorKind maps a load error onto a short metrics label.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFileNotFound):
		return "not_found"
	case errors.Is(err, ErrMissingColumns):
		return "missing_columns"
	case errors.Is(err, ErrMalformedRow):
		return "malformed"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported"
	default:
		return "error"
	}
}
