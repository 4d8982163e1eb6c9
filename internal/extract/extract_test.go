package extract

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
)

// buildWorkbook assembles an in-memory workbook from cell values and opens it
// in extraction mode.
func buildWorkbook(t *testing.T, name string, cells map[string]interface{}) *xlsxreader.Workbook {
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

	w, err := xlsxreader.Open(xlsxreader.FromBytes(name, buf.Bytes()), xlsxreader.ModeValues)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

// ia1Cells is a small but complete IA1 evaluation sheet: the metadata header,
// two outcome columns with question columns between them, a grand total, and
// three valid student rows plus one junk row.
func ia1Cells() map[string]interface{} {
	return map[string]interface{}{
		"C2": "C211",
		"C3": "Data Structures",
		"C4": "Dr. A. Kumar",
		"C5": "2023-2024",
		"C6": "II CSE A",
		"C7": "R2017 - AUC",
		"C8": "3",
		"C9": "Internal Assessment 1",

		// Column D is a raw question column, column E the CO1 subtotal,
		// column F another question, column G the CO2 subtotal, H the total.
		"D11": "Q1", "D12": 1, "D13": 10,
		"E11": "CO", "E12": 1, "E13": 30,
		"F11": "Q2", "F12": 2, "F13": 10,
		"G11": "CO", "G12": 2, "G13": 20,
		"H11": "TOTAL", "H13": 50,

		"B14": "731121104002", "C14": "BALA", "E14": 25, "G14": 18.5, "H14": 43.5,
		"B15": "731121104001", "C15": "ARUN", "E15": "absent", "G15": 12, "H15": 12,
		"C16": "NO REG NO",
		"B17": "731121104003", "C17": "CHITRA", "G17": 7, "H17": 7,
	}
}

func TestMetadata(t *testing.T) {
	w := buildWorkbook(t, "ia1.xlsx", ia1Cells())
	meta := Metadata(w)

	want := types.SheetMetadata{
		CourseCode:     "C211",
		CourseName:     "Data Structures",
		FacultyName:    "Dr. A. Kumar",
		AcademicYear:   "2023-2024",
		ClassInfo:      "II CSE A",
		Regulation:     "R2017 - AUC",
		TotalStudents:  "3",
		AssessmentName: "Internal Assessment 1",
		SourceName:     "ia1.xlsx",
	}
	if meta != want {
		t.Errorf("Metadata() = %+v, want %+v", meta, want)
	}
}

func TestMetadataBlankCells(t *testing.T) {
	w := buildWorkbook(t, "empty.xlsx", map[string]interface{}{"C2": "C101"})
	meta := Metadata(w)

	if meta.CourseCode != "C101" {
		t.Errorf("CourseCode = %q, want %q", meta.CourseCode, "C101")
	}
	if meta.CourseName != "" || meta.Regulation != "" {
		t.Errorf("blank cells should read as empty strings, got %+v", meta)
	}
}

func TestOutcomeColumns(t *testing.T) {
	w := buildWorkbook(t, "ia1.xlsx", ia1Cells())
	cols := OutcomeColumns(w)

	want := []types.OutcomeColumn{
		{Column: 5, Outcome: 1},
		{Column: 7, Outcome: 2},
	}
	if len(cols) != len(want) {
		t.Fatalf("OutcomeColumns() returned %d columns, want %d: %+v", len(cols), len(want), cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("OutcomeColumns()[%d] = %+v, want %+v", i, cols[i], want[i])
		}
	}
}

func TestOutcomeColumnsIgnoresBadOutcomeNumber(t *testing.T) {
	cells := ia1Cells()
	cells["G12"] = "two"
	w := buildWorkbook(t, "ia1.xlsx", cells)

	cols := OutcomeColumns(w)
	if len(cols) != 1 || cols[0].Column != 5 {
		t.Errorf("expected only the CO1 column to survive, got %+v", cols)
	}
}

func TestTotalColumn(t *testing.T) {
	w := buildWorkbook(t, "ia1.xlsx", ia1Cells())
	if got := TotalColumn(w); got != 8 {
		t.Errorf("TotalColumn() = %d, want 8", got)
	}

	cells := ia1Cells()
	delete(cells, "H11")
	delete(cells, "H13")
	delete(cells, "H14")
	delete(cells, "H15")
	delete(cells, "H17")
	w = buildWorkbook(t, "no-total.xlsx", cells)
	if got := TotalColumn(w); got != 0 {
		t.Errorf("TotalColumn() without a total header = %d, want 0", got)
	}
}

func TestStudents(t *testing.T) {
	w := buildWorkbook(t, "ia1.xlsx", ia1Cells())
	students, advisories := Students(w)

	if len(students) != 3 {
		t.Fatalf("Students() returned %d students, want 3", len(students))
	}
	if _, ok := students["NO REG NO"]; ok {
		t.Error("row without a registration number should be skipped")
	}

	bala := students["731121104002"]
	if bala.Name != "BALA" {
		t.Errorf("name = %q, want BALA", bala.Name)
	}
	if bala.OutcomeMarks[1] != 25 || bala.OutcomeMarks[2] != 18.5 {
		t.Errorf("BALA marks = %v, want CO1=25 CO2=18.5", bala.OutcomeMarks)
	}
	if bala.Total != 43.5 {
		t.Errorf("BALA total = %v, want 43.5", bala.Total)
	}

	// "absent" coerces to 0 and is reported.
	arun := students["731121104001"]
	if arun.OutcomeMarks[1] != 0 {
		t.Errorf("coerced mark = %v, want 0", arun.OutcomeMarks[1])
	}
	if len(advisories) != 1 {
		t.Fatalf("got %d advisories, want 1: %+v", len(advisories), advisories)
	}
	adv := advisories[0]
	if adv.Source != "ia1.xlsx" || adv.Row != 15 || adv.Column != 5 || adv.Raw != "absent" {
		t.Errorf("advisory = %+v, want {ia1.xlsx 15 5 absent}", adv)
	}

	// A blank mark cell coerces to 0 silently.
	chitra := students["731121104003"]
	if chitra.OutcomeMarks[1] != 0 {
		t.Errorf("blank mark = %v, want 0", chitra.OutcomeMarks[1])
	}
}

func TestStudentsDuplicateRegNo(t *testing.T) {
	cells := map[string]interface{}{
		"E11": "CO", "E12": 1, "E13": 30,
		"B14": "731121104001", "C14": "FIRST", "E14": 10,
		"B15": "731121104001", "C15": "SECOND", "E15": 20,
	}
	w := buildWorkbook(t, "dup.xlsx", cells)

	students, _ := Students(w)
	if len(students) != 1 {
		t.Fatalf("got %d students, want 1", len(students))
	}
	s := students["731121104001"]
	if s.Name != "SECOND" || s.OutcomeMarks[1] != 20 {
		t.Errorf("duplicate registration number should keep the later row, got %+v", s)
	}
}

func TestMaxima(t *testing.T) {
	w := buildWorkbook(t, "ia1.xlsx", ia1Cells())
	maxima, advisories := Maxima(w)

	if maxima.ByOutcome[1] != 30 || maxima.ByOutcome[2] != 20 {
		t.Errorf("ByOutcome = %v, want CO1=30 CO2=20", maxima.ByOutcome)
	}
	if maxima.Total != 50 {
		t.Errorf("Total = %v, want 50", maxima.Total)
	}
	if len(advisories) != 0 {
		t.Errorf("unexpected advisories: %+v", advisories)
	}
}

func TestAssessment(t *testing.T) {
	w := buildWorkbook(t, "ia1.xlsx", ia1Cells())
	sheet := Assessment(w)

	if sheet.Metadata.CourseCode != "C211" {
		t.Errorf("CourseCode = %q, want C211", sheet.Metadata.CourseCode)
	}
	if len(sheet.OutcomeColumns) != 2 {
		t.Errorf("got %d outcome columns, want 2", len(sheet.OutcomeColumns))
	}
	if sheet.TotalColumn != 8 {
		t.Errorf("TotalColumn = %d, want 8", sheet.TotalColumn)
	}
	if len(sheet.Students) != 3 {
		t.Errorf("got %d students, want 3", len(sheet.Students))
	}
	if len(sheet.Advisories) != 1 {
		t.Errorf("got %d advisories, want 1", len(sheet.Advisories))
	}
}
