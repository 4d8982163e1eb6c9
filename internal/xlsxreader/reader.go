// =============================================================================
// Attainment Sheet Generator - Workbook Reader
// =============================================================================
//
// This module opens spreadsheet sources and exposes 1-indexed cell-grid
// access. It is the leaf dependency of every extraction and projection
// component.
//
// SOURCE ABSTRACTION:
//   A Source is either a file on disk or a byte buffer already in memory
//   (e.g. an upload that was never written out). Callers above this package
//   never branch on the backing store.
//
// OPEN MODES:
//   - ModeValues:   read-only grid access for data extraction. Formula cells
//                   yield their last-computed cached value; the workbook is
//                   never recalculated.
//   - ModeTemplate: editable access for template filling. Cells not
//                   explicitly written keep their formulas, styles, and
//                   merges when the workbook is saved.
//
// =============================================================================

package xlsxreader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SOURCE
// =============================================================================

// Source identifies one spreadsheet input, backed by either a filesystem path
// or an in-memory byte buffer.
type Source struct {
	path string
	data []byte
	name string
}

// FromPath returns a Source backed by a file on disk.
func FromPath(path string) Source {
	return Source{path: path}
}

// FromBytes returns a Source backed by an in-memory buffer. The name is used
// in place of a file name in all messages.
func FromBytes(name string, data []byte) Source {
	return Source{data: data, name: name}
}

// IsBuffer reports whether the source is backed by memory rather than a file.
func (s Source) IsBuffer() bool {
	return s.path == ""
}

// Name returns the short identifier used in validation and error messages:
// the base name for files, the supplied label for buffers.
func (s Source) Name() string {
	if s.IsBuffer() {
		return s.name
	}
	return filepath.Base(s.path)
}

// Location returns the full path for file sources and the label for buffers.
func (s Source) Location() string {
	if s.IsBuffer() {
		return s.name
	}
	return s.path
}

// Exists reports whether the source can possibly be opened: file sources
// check the filesystem, buffer sources are always present.
func (s Source) Exists() bool {
	if s.IsBuffer() {
		return true
	}
	_, err := os.Stat(s.path)
	return err == nil
}

// =============================================================================
// ERRORS
// =============================================================================

// UnreadableSourceError indicates that a source's byte stream is not a
// parseable spreadsheet container. It is a hard error: callers must not
// retry, and the validator short-circuits on it.
type UnreadableSourceError struct {
	// Source is the short name of the offending source.
	Source string

	// Err is the underlying open/parse failure.
	Err error
}

func (e *UnreadableSourceError) Error() string {
	return fmt.Sprintf("cannot read workbook %s: %v", e.Source, e.Err)
}

func (e *UnreadableSourceError) Unwrap() error {
	return e.Err
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Mode selects how a workbook is opened.
type Mode int

const (
	// ModeValues is read-only extraction mode.
	ModeValues Mode = iota

	// ModeTemplate is editable template-fill mode.
	ModeTemplate
)

// Workbook is an open spreadsheet with grid access on its active (first)
// sheet. Not safe for concurrent use.
type Workbook struct {
	f      *excelize.File
	source Source
	mode   Mode
	sheet  string
	rows   [][]string
	maxCol int
}

// Open opens a source in the given mode. The active sheet is the first sheet
// in the workbook. Returns *UnreadableSourceError when the stream is not a
// spreadsheet or contains no sheets.
func Open(src Source, mode Mode) (*Workbook, error) {
	var f *excelize.File
	var err error

	if src.IsBuffer() {
		f, err = excelize.OpenReader(bytes.NewReader(src.data))
	} else {
		f, err = excelize.OpenFile(src.path)
	}
	if err != nil {
		return nil, &UnreadableSourceError{Source: src.Name(), Err: err}
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, &UnreadableSourceError{Source: src.Name(), Err: fmt.Errorf("workbook contains no sheets")}
	}
	sheet := sheets[0]

	// Snapshot the grid once. GetRows trims trailing empty cells per row, so
	// all access goes through guarded index lookups.
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, &UnreadableSourceError{Source: src.Name(), Err: err}
	}

	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	return &Workbook{
		f:      f,
		source: src,
		mode:   mode,
		sheet:  sheet,
		rows:   rows,
		maxCol: maxCol,
	}, nil
}

// Source returns the source this workbook was opened from.
func (w *Workbook) Source() Source {
	return w.source
}

// SheetName returns the active sheet name.
func (w *Workbook) SheetName() string {
	return w.sheet
}

// MaxRow returns the last row with content (1-indexed), 0 for an empty sheet.
func (w *Workbook) MaxRow() int {
	return len(w.rows)
}

// MaxCol returns the widest row's column count (1-indexed), 0 for an empty
// sheet.
func (w *Workbook) MaxCol() int {
	return w.maxCol
}

// Cell returns the value at the 1-indexed (row, col) position. Out-of-range
// and blank cells return the empty string. Formula cells return their cached
// computed value.
func (w *Workbook) Cell(row, col int) string {
	if row < 1 || col < 1 || row > len(w.rows) {
		return ""
	}
	r := w.rows[row-1]
	if col > len(r) {
		return ""
	}
	return r[col-1]
}

// SetCell writes a value at the 1-indexed (row, col) position. Only valid in
// ModeTemplate; extraction workbooks are read-only snapshots.
func (w *Workbook) SetCell(row, col int, value interface{}) error {
	if w.mode != ModeTemplate {
		return fmt.Errorf("workbook %s is open for reading only", w.source.Name())
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates (%d, %d): %w", row, col, err)
	}
	return w.f.SetCellValue(w.sheet, cell, value)
}

// SaveAs persists the workbook to the given path. Only valid in ModeTemplate.
// Every formula, style, and merge not explicitly overwritten by SetCell
// survives the save.
func (w *Workbook) SaveAs(path string) error {
	if w.mode != ModeTemplate {
		return fmt.Errorf("workbook %s is open for reading only", w.source.Name())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return w.f.SaveAs(path)
}

// WriteTo serializes the workbook into a buffer. Used by tests and callers
// that stream the artifact instead of writing a file.
func (w *Workbook) WriteTo() (*bytes.Buffer, error) {
	return w.f.WriteToBuffer()
}

// Close releases the underlying file handle. Safe to call once per workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}
