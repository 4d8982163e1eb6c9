// =============================================================================
// Attainment Sheet Generator - Cross-Sheet Validation Engine
// =============================================================================
//
// This module validates that a set of evaluation sheets belong together
// before their marks are merged. It is the single gate in front of
// generation: every fatal condition except source unreadability is detected
// here.
//
// VALIDATION PIPELINE (ordered):
//   1. Existence/readability: every source must be openable. Failure
//      short-circuits; nothing else can run without readable metadata.
//   2. Consistency: identity fields must agree across sheets, with the first
//      sheet as reference. Required-field mismatches are errors,
//      recommended-field mismatches are warnings.
//   3. Regulation: when the caller supplies an expected regulation, every
//      sheet's normalized regulation must equal it.
//   4. Roster: students absent from some sheets produce warnings only;
//      partial rosters across assessments are expected.
//   5. Marks range, per sheet: negative marks are errors, marks above the
//      declared maximum are warnings.
//
// ERROR HANDLING:
//   - Issues are collected, not thrown: a user sees every problem in one
//     pass instead of fixing one error at a time.
//   - Errors gate generation; warnings never do.
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/extract"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue represents a single validation finding.
type Issue struct {
	// Severity is "error" (gates generation) or "warning" (advisory only).
	Severity string

	// Source is the sheet the issue was found in, empty for cross-sheet
	// findings.
	Source string

	// Field is the metadata field or outcome label involved, empty when not
	// applicable.
	Field string

	// Message is the human-readable description shown to the user.
	Message string
}

// Error implements the error interface.
func (e *Issue) Error() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(e.Severity), e.Message)
}

// =============================================================================
// RESULT
// =============================================================================

// Result contains the collected findings of a validation run.
type Result struct {
	// IsValid is true if no errors were collected. Warnings do not affect it.
	IsValid bool

	// Errors contains the blocking findings in detection order.
	Errors []*Issue

	// Warnings contains the non-blocking findings in detection order.
	Warnings []*Issue
}

func newResult() *Result {
	return &Result{IsValid: true}
}

func (r *Result) addError(source, field, format string, args ...interface{}) {
	r.Errors = append(r.Errors, &Issue{
		Severity: SeverityError,
		Source:   source,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
	r.IsValid = false
}

func (r *Result) addWarning(source, field, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, &Issue{
		Severity: SeverityWarning,
		Source:   source,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

// merge appends another result's findings, preserving order.
func (r *Result) merge(other *Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if !other.IsValid {
		r.IsValid = false
	}
}

// ErrorMessages returns the error texts in detection order.
func (r *Result) ErrorMessages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return msgs
}

// WarningMessages returns the warning texts in detection order.
func (r *Result) WarningMessages() []string {
	msgs := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		msgs[i] = w.Message
	}
	return msgs
}

// Summary renders the overall outcome on one line.
func (r *Result) Summary() string {
	if r.IsValid {
		return "Validation Passed"
	}
	return "Validation Failed: " + strings.Join(r.ErrorMessages(), "; ")
}

// =============================================================================
// FIELD SETS
// =============================================================================

// requiredMatchFields must agree across all sheets; a mismatch is an error.
var requiredMatchFields = []string{
	"course_code",
	"course_name",
	"faculty_name",
	"regulation",
}

// recommendedMatchFields should agree; a mismatch is only a warning.
var recommendedMatchFields = []string{
	"academic_year",
	"class_info",
}

// =============================================================================
// VALIDATION STEPS
// =============================================================================

// ValidateExistence checks that every file-backed source is present on disk.
// Buffer sources always pass.
func ValidateExistence(sources []xlsxreader.Source) *Result {
	result := newResult()
	for _, src := range sources {
		if !src.Exists() {
			result.addError(src.Name(), "", "File not found: %s", src.Location())
		}
	}
	return result
}

// ValidateConsistency compares identity metadata across sheets using the
// first sheet as reference. Comparisons are case-insensitive and trimmed;
// messages carry the raw values so the user sees what was actually entered.
// All mismatches are collected, none aborts the scan.
func ValidateConsistency(sheets []*types.AssessmentSheet) *Result {
	result := newResult()

	if len(sheets) == 0 {
		result.addError("", "", "No files provided for validation")
		return result
	}

	reference := sheets[0].Metadata
	for _, sheet := range sheets[1:] {
		meta := sheet.Metadata
		for _, field := range requiredMatchFields {
			if !fieldsEqual(reference.Field(field), meta.Field(field)) {
				result.addError(meta.SourceName, field,
					"Mismatch in '%s': '%s' (in %s) vs '%s' (in %s)",
					field,
					reference.Field(field), reference.SourceName,
					meta.Field(field), meta.SourceName)
			}
		}
	}

	for _, sheet := range sheets[1:] {
		meta := sheet.Metadata
		for _, field := range recommendedMatchFields {
			if !fieldsEqual(reference.Field(field), meta.Field(field)) {
				result.addWarning(meta.SourceName, field,
					"Difference in '%s': '%s' vs '%s'",
					field, reference.Field(field), meta.Field(field))
			}
		}
	}

	return result
}

// ValidateRegulation checks every sheet's normalized regulation against the
// expected one. Mismatches are errors, all collected.
func ValidateRegulation(sheets []*types.AssessmentSheet, expected string) *Result {
	result := newResult()
	expectedNorm := extract.NormalizeRegulation(expected)

	for _, sheet := range sheets {
		actual := extract.NormalizeRegulation(sheet.Metadata.Regulation)
		if actual != expectedNorm {
			result.addError(sheet.Metadata.SourceName, "regulation",
				"Regulation mismatch in %s: expected %s, found %s",
				sheet.Metadata.SourceName, expectedNorm, actual)
		}
	}

	return result
}

// ValidateRoster unions the registration numbers across sheets and warns for
// every student absent from some sheet. Missing students never fail
// validation; a student who skipped one exam is an expected case. Warnings
// are emitted in ascending registration-number order.
func ValidateRoster(sheets []*types.AssessmentSheet) *Result {
	result := newResult()

	if len(sheets) < 2 {
		return result
	}

	union := make(map[string]bool)
	for _, sheet := range sheets {
		for regNo := range sheet.Students {
			union[regNo] = true
		}
	}

	regNos := make([]string, 0, len(union))
	for regNo := range union {
		regNos = append(regNos, regNo)
	}
	sort.Strings(regNos)

	for _, regNo := range regNos {
		var missingFrom []string
		for _, sheet := range sheets {
			if _, ok := sheet.Students[regNo]; !ok {
				missingFrom = append(missingFrom, sheet.Metadata.SourceName)
			}
		}
		if len(missingFrom) > 0 {
			result.addWarning("", "",
				"Student %s missing from: %s", regNo, strings.Join(missingFrom, ", "))
		}
	}

	return result
}

// ValidateMarksRange checks one sheet's marks against its declared maxima.
// Negative marks are errors; marks above a positive maximum are warnings.
// Findings are emitted in ascending registration-number and outcome order.
func ValidateMarksRange(sheet *types.AssessmentSheet) *Result {
	result := newResult()
	source := sheet.Metadata.SourceName

	regNos := make([]string, 0, len(sheet.Students))
	for regNo := range sheet.Students {
		regNos = append(regNos, regNo)
	}
	sort.Strings(regNos)

	for _, regNo := range regNos {
		student := sheet.Students[regNo]

		outcomes := make([]int, 0, len(student.OutcomeMarks))
		for co := range student.OutcomeMarks {
			outcomes = append(outcomes, co)
		}
		sort.Ints(outcomes)

		for _, co := range outcomes {
			mark := student.OutcomeMarks[co]
			maxMark := sheet.Maxima.ByOutcome[co]

			if mark < 0 {
				result.addError(source, fmt.Sprintf("CO%d", co),
					"Negative marks for %s in CO%d: %s",
					regNo, co, formatMark(mark))
			} else if maxMark > 0 && mark > maxMark {
				result.addWarning(source, fmt.Sprintf("CO%d", co),
					"Marks exceed max for %s in CO%d: %s > %s",
					regNo, co, formatMark(mark), formatMark(maxMark))
			}
		}
	}

	return result
}

// =============================================================================
// ORCHESTRATION
// =============================================================================

// ValidateSheets runs consistency, regulation (when expected is non-empty),
// roster, and marks-range checks over already-parsed sheets, concatenating
// all findings in pipeline order.
func ValidateSheets(sheets []*types.AssessmentSheet, expectedRegulation string) *Result {
	result := newResult()

	result.merge(ValidateConsistency(sheets))

	if expectedRegulation != "" {
		result.merge(ValidateRegulation(sheets, expectedRegulation))
	}

	result.merge(ValidateRoster(sheets))

	for _, sheet := range sheets {
		result.merge(ValidateMarksRange(sheet))
	}

	return result
}

// ValidateAll runs the full pipeline from raw sources: existence check,
// parse, then every sheet-level check. The parsed sheets are returned so
// callers do not read the sources twice. On a short-circuit the returned
// sheet slice holds whatever was parsed before the failure.
func ValidateAll(sources []xlsxreader.Source, expectedRegulation string) (*Result, []*types.AssessmentSheet) {
	result := newResult()

	existence := ValidateExistence(sources)
	if !existence.IsValid {
		return existence, nil
	}

	sheets := make([]*types.AssessmentSheet, 0, len(sources))
	for _, src := range sources {
		w, err := xlsxreader.Open(src, xlsxreader.ModeValues)
		if err != nil {
			result.addError(src.Name(), "", "Error reading %s: %v", src.Location(), err)
			return result, sheets
		}
		sheets = append(sheets, extract.Assessment(w))
		w.Close()
	}

	result.merge(ValidateSheets(sheets, expectedRegulation))
	return result, sheets
}

// =============================================================================
// HELPERS
// =============================================================================

// fieldsEqual compares two metadata values case-insensitively after
// trimming.
func fieldsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// formatMark renders a mark without a trailing ".0" for whole numbers.
func formatMark(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
