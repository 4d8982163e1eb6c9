// =============================================================================
// Attainment Sheet Generator - Marks Extraction
// =============================================================================
//
// Locates the outcome-subtotal and grand-total columns of an evaluation sheet
// by scanning its header rows, then reads per-student rows into normalized
// records.
//
// SHEET LAYOUT (1-indexed):
//   row 11: per-column header; the literal "CO" marks an outcome-subtotal
//           column, a header containing "TOTAL" marks the grand-total column
//   row 12: outcome number for each "CO" column
//   row 13: maximum achievable mark per outcome/total column
//   row 14+: student rows (col 1 serial, col 2 reg no, col 3 name, then marks)
//
// Columns 1-3 are never scanned for marks. Individual per-question columns
// carry question labels (not "CO") on row 11 and are ignored, which is how
// subtotal columns are told apart from raw question columns without a schema.
//
// LENIENCY:
//   A blank mark cell reads as 0. A non-blank cell that does not parse as a
//   number also reads as 0, but additionally records a CellAdvisory so the
//   coercion is visible to the caller instead of silently masking data-entry
//   errors. A single bad cell never fails the sheet.
//
// =============================================================================

package extract

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
)

// Header and data row positions.
const (
	questionRow  = 11
	outcomeRow   = 12
	maximaRow    = 13
	dataStartRow = 14
)

// Fixed data columns.
const (
	regNoCol     = 2
	nameCol      = 3
	firstMarkCol = 4
)

// OutcomeColumns scans columns 4..max and returns every column whose row-11
// header equals "CO" (uppercased, trimmed) and whose row-12 value parses as a
// number. The outcome number is truncated from a float parse, so "3", "3.0",
// and 3 all map to outcome 3. Results are in ascending column order.
func OutcomeColumns(w *xlsxreader.Workbook) []types.OutcomeColumn {
	var cols []types.OutcomeColumn

	for col := firstMarkCol; col <= w.MaxCol(); col++ {
		header := strings.TrimSpace(strings.ToUpper(w.Cell(questionRow, col)))
		if header != "CO" {
			continue
		}
		raw := strings.TrimSpace(w.Cell(outcomeRow, col))
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		cols = append(cols, types.OutcomeColumn{Column: col, Outcome: int(num)})
	}

	return cols
}

// TotalColumn returns the first column 4..max whose row-11 header contains
// "TOTAL" (case-insensitive), or 0 when the sheet has no grand-total column.
func TotalColumn(w *xlsxreader.Workbook) int {
	for col := firstMarkCol; col <= w.MaxCol(); col++ {
		header := strings.ToUpper(w.Cell(questionRow, col))
		if strings.Contains(header, "TOTAL") {
			return col
		}
	}
	return 0
}

// Students reads rows 14..max into per-student records. A row qualifies as a
// student row only when both the registration number and the name are
// non-blank after trimming; all other rows are skipped silently. A
// registration number appearing twice keeps the later row, matching plain
// map assignment.
//
// The returned advisories list every non-blank mark cell that was coerced
// to 0, in scan order.
func Students(w *xlsxreader.Workbook) (map[string]types.StudentMarks, []types.CellAdvisory) {
	outcomeCols := OutcomeColumns(w)
	totalCol := TotalColumn(w)
	source := w.Source().Name()

	students := make(map[string]types.StudentMarks)
	var advisories []types.CellAdvisory

	for row := dataStartRow; row <= w.MaxRow(); row++ {
		regNo := strings.TrimSpace(w.Cell(row, regNoCol))
		name := strings.TrimSpace(w.Cell(row, nameCol))
		if regNo == "" || name == "" {
			continue
		}

		marks := make(map[int]float64, len(outcomeCols))
		for _, oc := range outcomeCols {
			val, adv := coerceMark(source, row, oc.Column, w.Cell(row, oc.Column))
			marks[oc.Outcome] = val
			if adv != nil {
				advisories = append(advisories, *adv)
			}
		}

		total := 0.0
		if totalCol > 0 {
			val, adv := coerceMark(source, row, totalCol, w.Cell(row, totalCol))
			total = val
			if adv != nil {
				advisories = append(advisories, *adv)
			}
		}

		students[regNo] = types.StudentMarks{
			RegNo:        regNo,
			Name:         name,
			OutcomeMarks: marks,
			Total:        total,
		}
	}

	return students, advisories
}

// Maxima reads the declared maximum marks from row 13 for every discovered
// outcome column and the grand-total column. The same coercion policy as
// Students applies.
func Maxima(w *xlsxreader.Workbook) (types.OutcomeMaxima, []types.CellAdvisory) {
	outcomeCols := OutcomeColumns(w)
	totalCol := TotalColumn(w)
	source := w.Source().Name()

	maxima := types.OutcomeMaxima{ByOutcome: make(map[int]float64, len(outcomeCols))}
	var advisories []types.CellAdvisory

	for _, oc := range outcomeCols {
		val, adv := coerceMark(source, maximaRow, oc.Column, w.Cell(maximaRow, oc.Column))
		maxima.ByOutcome[oc.Outcome] = val
		if adv != nil {
			advisories = append(advisories, *adv)
		}
	}

	if totalCol > 0 {
		val, adv := coerceMark(source, maximaRow, totalCol, w.Cell(maximaRow, totalCol))
		maxima.Total = val
		if adv != nil {
			advisories = append(advisories, *adv)
		}
	}

	return maxima, advisories
}

// Assessment reads one evaluation sheet into its complete read-only
// snapshot: metadata, discovered columns, students, maxima, and every
// coercion advisory encountered along the way.
func Assessment(w *xlsxreader.Workbook) *types.AssessmentSheet {
	students, studentAdv := Students(w)
	maxima, maximaAdv := Maxima(w)

	return &types.AssessmentSheet{
		Metadata:       Metadata(w),
		OutcomeColumns: OutcomeColumns(w),
		TotalColumn:    TotalColumn(w),
		Students:       students,
		Maxima:         maxima,
		Advisories:     append(studentAdv, maximaAdv...),
	}
}

// coerceMark parses a mark cell. Blank cells read as 0 with no advisory;
// non-blank cells that fail to parse read as 0 with an advisory carrying the
// raw text.
func coerceMark(source string, row, col int, raw string) (float64, *types.CellAdvisory) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &types.CellAdvisory{Source: source, Row: row, Column: col, Raw: raw}
	}
	return val, nil
}
