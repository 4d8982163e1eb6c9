package xlsxreader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// workbookBytes serializes a workbook with the given cell values.
func workbookBytes(t *testing.T, cells map[string]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("failed to set cell %s: %v", cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func TestSourceNaming(t *testing.T) {
	file := FromPath("/data/uploads/ia1.xlsx")
	if file.Name() != "ia1.xlsx" {
		t.Errorf("Name() = %q, want ia1.xlsx", file.Name())
	}
	if file.Location() != "/data/uploads/ia1.xlsx" {
		t.Errorf("Location() = %q, want the full path", file.Location())
	}
	if file.IsBuffer() {
		t.Error("file source reported as buffer")
	}

	buf := FromBytes("model.xlsx", []byte("x"))
	if buf.Name() != "model.xlsx" || buf.Location() != "model.xlsx" {
		t.Errorf("buffer Name/Location = %q/%q, want model.xlsx", buf.Name(), buf.Location())
	}
	if !buf.IsBuffer() {
		t.Error("buffer source not reported as buffer")
	}
	if !buf.Exists() {
		t.Error("buffer sources always exist")
	}
	if FromPath(filepath.Join(t.TempDir(), "missing.xlsx")).Exists() {
		t.Error("missing file reported as existing")
	}
}

func TestOpenFromBytes(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "header",
		"C3": 42,
		"B5": "last",
	})

	w, err := Open(FromBytes("grid.xlsx", data), ModeValues)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer w.Close()

	if got := w.Cell(1, 1); got != "header" {
		t.Errorf("Cell(1,1) = %q, want header", got)
	}
	if got := w.Cell(3, 3); got != "42" {
		t.Errorf("Cell(3,3) = %q, want 42", got)
	}
	if got := w.Cell(2, 2); got != "" {
		t.Errorf("blank cell = %q, want empty", got)
	}
	if got := w.Cell(100, 100); got != "" {
		t.Errorf("out-of-range cell = %q, want empty", got)
	}
	if w.MaxRow() != 5 {
		t.Errorf("MaxRow() = %d, want 5", w.MaxRow())
	}
	if w.MaxCol() != 3 {
		t.Errorf("MaxCol() = %d, want 3", w.MaxCol())
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := Open(FromBytes("bad.xlsx", []byte("this is not a workbook")), ModeValues)
	if err == nil {
		t.Fatal("Open() accepted garbage bytes")
	}

	var unreadable *UnreadableSourceError
	if !errors.As(err, &unreadable) {
		t.Fatalf("error type = %T, want *UnreadableSourceError", err)
	}
	if unreadable.Source != "bad.xlsx" {
		t.Errorf("Source = %q, want bad.xlsx", unreadable.Source)
	}
}

func TestModeValuesRejectsWrites(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{"A1": "x"})
	w, err := Open(FromBytes("ro.xlsx", data), ModeValues)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer w.Close()

	if err := w.SetCell(1, 1, "y"); err == nil {
		t.Error("SetCell() succeeded on a read-only workbook")
	}
	if err := w.SaveAs(filepath.Join(t.TempDir(), "out.xlsx")); err == nil {
		t.Error("SaveAs() succeeded on a read-only workbook")
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{"A1": "keep me"})
	w, err := Open(FromBytes("template.xlsx", data), ModeTemplate)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer w.Close()

	if err := w.SetCell(7, 2, "731121104001"); err != nil {
		t.Fatalf("SetCell() failed: %v", err)
	}
	if err := w.SetCell(7, 4, 18.5); err != nil {
		t.Fatalf("SetCell() failed: %v", err)
	}

	out, err := w.WriteTo()
	if err != nil {
		t.Fatalf("WriteTo() failed: %v", err)
	}

	reread, err := Open(FromBytes("filled.xlsx", out.Bytes()), ModeValues)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reread.Close()

	if got := reread.Cell(1, 1); got != "keep me" {
		t.Errorf("untouched cell = %q, want to survive the round trip", got)
	}
	if got := reread.Cell(7, 2); got != "731121104001" {
		t.Errorf("Cell(7,2) = %q, want the written value", got)
	}
	if got := reread.Cell(7, 4); got != "18.5" {
		t.Errorf("Cell(7,4) = %q, want 18.5", got)
	}
}

func TestSaveAsCreatesDirectories(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{"A1": "x"})
	w, err := Open(FromBytes("template.xlsx", data), ModeTemplate)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer w.Close()

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.xlsx")
	if err := w.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	reread, err := Open(FromPath(path), ModeValues)
	if err != nil {
		t.Fatalf("reopening the saved file failed: %v", err)
	}
	defer reread.Close()
	if got := reread.Cell(1, 1); got != "x" {
		t.Errorf("Cell(1,1) = %q, want x", got)
	}
}
