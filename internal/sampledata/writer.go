package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/portal/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

const (
	directoryPermission = 0o750
	sheetName           = "Transfers"
)

// Header is the title-case header written to every dataset.
var Header = []string{"First Name", "Last Name", "Origin School", "Destination School", "Season", "Rating", "Stars"}

// FormatFor picks the output format: the explicit one, else the extension.
func FormatFor(path, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case FormatCSV, FormatXLSX:
		return format, nil
	default:
		return "", fmt.Errorf("%w: unsupported output format %q", ErrInvalidConfig, format)
	}
}

// Write stores records at path in the given format, creating parent
// directories as needed.
func Write(path, format string, records []model.TransferRecord) error {
	format, err := FormatFor(path, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if format == FormatXLSX {
		return writeXLSX(path, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes records as comma separated text with the title-case header.
func WriteCSV(w io.Writer, records []model.TransferRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		if err := cw.Write(row(records[i])); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(path string, records []model.TransferRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("open sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells(records[i])); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func row(r model.TransferRecord) []string {
	out := []string{r.FirstName, r.LastName, "", "", strconv.Itoa(r.Season), "", ""}
	if r.Origin != nil {
		out[2] = *r.Origin
	}
	if r.Destination != nil {
		out[3] = *r.Destination
	}
	if r.Rating != nil {
		out[5] = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	if r.Stars != nil {
		out[6] = strconv.Itoa(*r.Stars)
	}
	return out
}

// cells keeps numbers numeric in the workbook; nulls are empty strings.
func cells(r model.TransferRecord) []any {
	out := []any{r.FirstName, r.LastName, "", "", r.Season, "", ""}
	if r.Origin != nil {
		out[2] = *r.Origin
	}
	if r.Destination != nil {
		out[3] = *r.Destination
	}
	if r.Rating != nil {
		out[5] = *r.Rating
	}
	if r.Stars != nil {
		out[6] = *r.Stars
	}
	return out
}
