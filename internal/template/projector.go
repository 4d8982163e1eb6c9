// =============================================================================
// Attainment Sheet Generator - Template Projector
// =============================================================================
//
// Writes the merged student roster and per-assessment outcome marks into an
// attainment template opened for writing. Only the cells a ColumnMapping
// addresses are touched; every formula, style, and header the template
// carries stays as issued.
//
// ROW ASSIGNMENT:
//   Students are sorted by registration number ascending and occupy
//   consecutive rows from the mapping's data-start row.
//
// =============================================================================

package template

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
)

// Project fills a template workbook with the merged roster and the marks of
// each assessment. The merged map supplies registration numbers and names;
// marks come from the per-assessment records so that every assessment's
// contribution lands in its own column. Assessments or outcomes a student
// has no record for leave their cells untouched.
func Project(
	w *xlsxreader.Workbook,
	mapping ColumnMapping,
	merged map[string]*types.MergedStudent,
	perAssessment map[types.AssessmentType]map[string]types.StudentMarks,
) error {
	regNos := make([]string, 0, len(merged))
	for regNo := range merged {
		regNos = append(regNos, regNo)
	}
	sort.Strings(regNos)

	for idx, regNo := range regNos {
		row := mapping.DataStartRow + idx
		student := merged[regNo]

		if err := w.SetCell(row, mapping.RegNoCol, regNo); err != nil {
			return fmt.Errorf("failed to write registration number for %s: %w", regNo, err)
		}
		if err := w.SetCell(row, mapping.NameCol, student.Name); err != nil {
			return fmt.Errorf("failed to write name for %s: %w", regNo, err)
		}

		for _, co := range mapping.Outcomes() {
			for _, at := range mapping.Assessments(co) {
				col := mapping.OutcomeColumns[co][at]

				records, ok := perAssessment[at]
				if !ok {
					continue
				}
				marks, ok := records[regNo]
				if !ok {
					continue
				}
				mark, ok := marks.OutcomeMarks[co]
				if !ok {
					continue
				}

				if err := w.SetCell(row, col, mark); err != nil {
					return fmt.Errorf("failed to write CO%d %s mark for %s: %w", co, at, regNo, err)
				}
			}
		}
	}
	return nil
}
