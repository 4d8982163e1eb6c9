package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

func auditFixture() ([]SheetEntry, map[string]*types.MergedStudent) {
	ia1 := &types.AssessmentSheet{
		Metadata: types.SheetMetadata{SourceName: "ia1.xlsx"},
		OutcomeColumns: []types.OutcomeColumn{
			{Column: 4, Outcome: 1},
			{Column: 5, Outcome: 2},
		},
		Students: map[string]types.StudentMarks{
			"731121104001": {RegNo: "731121104001", Name: "ARUN", OutcomeMarks: map[int]float64{1: 20, 2: 15.5}, Total: 35.5},
			"731121104002": {RegNo: "731121104002", Name: "BALA", OutcomeMarks: map[int]float64{1: 25}, Total: 25},
		},
	}
	model := &types.AssessmentSheet{
		Metadata: types.SheetMetadata{SourceName: "model.xlsx"},
		OutcomeColumns: []types.OutcomeColumn{
			{Column: 4, Outcome: 1},
			{Column: 6, Outcome: 5},
		},
		Students: map[string]types.StudentMarks{
			"731121104001": {RegNo: "731121104001", Name: "ARUN", OutcomeMarks: map[int]float64{1: 18, 5: 40}, Total: 58},
		},
	}

	entries := []SheetEntry{
		{Tag: types.IA1, Sheet: ia1},
		{Tag: types.Model, Sheet: model},
	}
	merged := map[string]*types.MergedStudent{
		"731121104001": {RegNo: "731121104001", Name: "ARUN", OutcomeMarks: map[int]float64{1: 20, 2: 15.5, 5: 40}},
		"731121104002": {RegNo: "731121104002", Name: "BALA", OutcomeMarks: map[int]float64{1: 25}},
	}
	return entries, merged
}

func TestRecords(t *testing.T) {
	entries, merged := auditFixture()
	records := Records(entries, merged)

	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus two students", len(records))
	}

	wantHeader := []string{
		"reg_no", "name",
		"IA1_CO1", "IA1_CO2", "IA1_total",
		"Model_CO1", "Model_CO5", "Model_total",
		"merged_CO1", "merged_CO2", "merged_CO5",
	}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	wantArun := []string{
		"731121104001", "ARUN",
		"20", "15.5", "35.5",
		"18", "40", "58",
		"20", "15.5", "40",
	}
	if !reflect.DeepEqual(records[1], wantArun) {
		t.Errorf("ARUN row = %v, want %v", records[1], wantArun)
	}

	// BALA is absent from the model exam: the whole group stays empty, and
	// the unreported IA1 CO2 stays empty too.
	wantBala := []string{
		"731121104002", "BALA",
		"25", "", "25",
		"", "", "",
		"25", "", "",
	}
	if !reflect.DeepEqual(records[2], wantBala) {
		t.Errorf("BALA row = %v, want %v", records[2], wantBala)
	}
}

func TestWriteAudit(t *testing.T) {
	entries, merged := auditFixture()
	path := filepath.Join(t.TempDir(), "reports", "audit.csv")

	if err := WriteAudit(path, entries, merged); err != nil {
		t.Fatalf("WriteAudit() failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("report is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("report has %d records, want 3", len(records))
	}
	if records[1][0] != "731121104001" {
		t.Errorf("first student = %q, want the lowest registration number", records[1][0])
	}
}
