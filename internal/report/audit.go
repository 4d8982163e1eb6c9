// =============================================================================
// Attainment Sheet Generator - Audit Report Module
// =============================================================================
//
// This module writes the per-student audit report that accompanies a
// generated attainment sheet. The report is a CSV with one row per merged
// student showing what every assessment contributed to every outcome, plus
// the consolidated value that actually landed in the template.
//
// LAYOUT:
//   reg_no, name,
//   <TAG>_CO<n> ... <TAG>_total   (one group per assessment, sheet order)
//   merged_CO<n> ...              (the first-wins consolidated values)
//
// Cells are left empty when a student is absent from an assessment or an
// assessment does not report an outcome, so the report distinguishes
// "missing" from an actual 0.
//
// =============================================================================

package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

// =============================================================================
// REPORT INPUT
// =============================================================================

// SheetEntry pairs an assessment tag with its parsed sheet. The slice order
// given to the writer fixes the column group order.
type SheetEntry struct {
	// Tag is the assessment label used in column headers, e.g. "IA1".
	Tag types.AssessmentType

	// Sheet is the parsed evaluation sheet for that assessment.
	Sheet *types.AssessmentSheet
}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// WriteAudit writes the audit report to the given path, creating parent
// directories as needed.
func WriteAudit(path string, entries []SheetEntry, merged map[string]*types.MergedStudent) error {
	records := Records(entries, merged)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(bufio.NewWriter(file))
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// Records builds the report as CSV records, header first. Students appear
// sorted by registration number.
func Records(entries []SheetEntry, merged map[string]*types.MergedStudent) [][]string {
	mergedOutcomes := mergedOutcomeSet(merged)
	records := [][]string{buildHeader(entries, mergedOutcomes)}

	regNos := make([]string, 0, len(merged))
	for regNo := range merged {
		regNos = append(regNos, regNo)
	}
	sort.Strings(regNos)

	for _, regNo := range regNos {
		records = append(records, buildRow(regNo, merged[regNo], entries, mergedOutcomes))
	}

	return records
}

// buildHeader assembles the header record: fixed columns, one group per
// assessment in entry order, then the merged columns.
func buildHeader(entries []SheetEntry, mergedOutcomes []int) []string {
	header := []string{"reg_no", "name"}

	for _, e := range entries {
		for _, oc := range e.Sheet.OutcomeColumns {
			header = append(header, fmt.Sprintf("%s_CO%d", e.Tag, oc.Outcome))
		}
		header = append(header, fmt.Sprintf("%s_total", e.Tag))
	}

	for _, co := range mergedOutcomes {
		header = append(header, fmt.Sprintf("merged_CO%d", co))
	}

	return header
}

// buildRow assembles one student's record in the same column order as the
// header.
func buildRow(regNo string, student *types.MergedStudent, entries []SheetEntry, mergedOutcomes []int) []string {
	row := []string{regNo, student.Name}

	for _, e := range entries {
		marks, present := e.Sheet.Students[regNo]

		for _, oc := range e.Sheet.OutcomeColumns {
			if !present {
				row = append(row, "")
				continue
			}
			if mark, ok := marks.OutcomeMarks[oc.Outcome]; ok {
				row = append(row, formatMark(mark))
			} else {
				row = append(row, "")
			}
		}

		if present {
			row = append(row, formatMark(marks.Total))
		} else {
			row = append(row, "")
		}
	}

	for _, co := range mergedOutcomes {
		if mark, ok := student.OutcomeMarks[co]; ok {
			row = append(row, formatMark(mark))
		} else {
			row = append(row, "")
		}
	}

	return row
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// mergedOutcomeSet collects the outcome numbers present anywhere in the
// merged roster, ascending.
func mergedOutcomeSet(merged map[string]*types.MergedStudent) []int {
	seen := make(map[int]bool)
	for _, student := range merged {
		for co := range student.OutcomeMarks {
			seen[co] = true
		}
	}

	outcomes := make([]int, 0, len(seen))
	for co := range seen {
		outcomes = append(outcomes, co)
	}
	sort.Ints(outcomes)
	return outcomes
}

// formatMark renders a mark the way it would appear in the workbook, with
// no trailing zeros.
func formatMark(mark float64) string {
	return strconv.FormatFloat(mark, 'g', -1, 64)
}
