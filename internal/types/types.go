// =============================================================================
// Attainment Sheet Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - extract
//   - validation
//   - generator
//   - template
//
// =============================================================================

package types

import "strings"

// =============================================================================
// CLASSIFICATION TAGS
// =============================================================================

// AssessmentType is the canonical tag identifying which exam or review an
// evaluation sheet represents. The string values appear in column-mapping
// tables, CLI input labels, and user-facing messages, so they must stay
// stable.
type AssessmentType string

const (
	IA1        AssessmentType = "IA1"
	IA2        AssessmentType = "IA2"
	Model      AssessmentType = "Model"
	Lab        AssessmentType = "Lab"
	Review1    AssessmentType = "Review1"
	Review2    AssessmentType = "Review2"
	Review3    AssessmentType = "Review3"
	Integrated AssessmentType = "Integrated"
	Unknown    AssessmentType = "Unknown"
)

// ParseAssessmentTag maps a user-supplied label (e.g. from a CLI flag) to a
// known AssessmentType. Matching is case-insensitive. Unknown labels return
// ok=false rather than the Unknown tag so callers can distinguish "user typed
// garbage" from "sheet could not be classified".
func ParseAssessmentTag(s string) (AssessmentType, bool) {
	for _, t := range []AssessmentType{IA1, IA2, Model, Lab, Review1, Review2, Review3, Integrated} {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return Unknown, false
}

// Regulation is an academic curriculum version code (R17, R21, R24). It
// selects which template layout and column mapping apply.
type Regulation string

const (
	R17 Regulation = "R17"
	R21 Regulation = "R21"
	R24 Regulation = "R24"
)

// Category is the course category within a regulation.
type Category string

const (
	Theory         Category = "theory"
	Analytical     Category = "analytical"
	LabCourse      Category = "lab"
	Project        Category = "project"
	IntegratedKind Category = "integrated"
)

// DeptType distinguishes template variants within a category. Categories
// without a department split use DeptDefault.
type DeptType string

const (
	DeptCore    DeptType = "dept"
	DeptScience DeptType = "s&h"
	DeptDefault DeptType = "default"
)

// ParseRegulation normalizes a CLI-supplied regulation code to its canonical
// uppercase form. It does not validate against the registry; unknown codes
// surface later as registry lookup errors.
func ParseRegulation(s string) Regulation {
	return Regulation(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseCategory lowercases a CLI-supplied category.
func ParseCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// ParseDeptType lowercases a CLI-supplied department type.
func ParseDeptType(s string) DeptType {
	return DeptType(strings.ToLower(strings.TrimSpace(s)))
}

// =============================================================================
// SHEET TYPES
// =============================================================================

// SheetMetadata holds the eight fixed-position header fields of an evaluation
// sheet. All values are stringified and trimmed; a blank cell yields an empty
// string, never an error.
type SheetMetadata struct {
	// CourseCode is the institutional course identifier, e.g. "C211".
	CourseCode string

	// CourseName is the full course title, e.g. "COMPUTER ARCHITECTURE".
	CourseName string

	// FacultyName is the course instructor as entered on the sheet.
	FacultyName string

	// AcademicYear is the academic year string, e.g. "2020-2021 (EVEN)".
	AcademicYear string

	// ClassInfo is the class/section description, e.g. "B.TECH.IT (2ND YEAR)".
	ClassInfo string

	// Regulation is the raw regulation string as entered, e.g. "R2017 - AUC".
	// Use extract.NormalizeRegulation before comparing.
	Regulation string

	// TotalStudents is the stated student count. Kept as a string because
	// sheets routinely contain annotations like "62 (2 detained)".
	TotalStudents string

	// AssessmentName is the free-text assessment title, e.g.
	// "INTERNAL ASSESSMENT-1". Use extract.DetectAssessmentType to classify.
	AssessmentName string

	// SourceName identifies the sheet this metadata came from (file base name
	// or buffer label). Used in validation messages.
	SourceName string
}

// Field returns a metadata field by its canonical snake_case name. The
// validator iterates field lists, so lookup by name avoids reflection.
func (m SheetMetadata) Field(name string) string {
	switch name {
	case "course_code":
		return m.CourseCode
	case "course_name":
		return m.CourseName
	case "faculty_name":
		return m.FacultyName
	case "academic_year":
		return m.AcademicYear
	case "class_info":
		return m.ClassInfo
	case "regulation":
		return m.Regulation
	case "total_students":
		return m.TotalStudents
	case "assessment_name":
		return m.AssessmentName
	}
	return ""
}

// OutcomeColumn pairs a worksheet column index with the course-outcome number
// it subtotals. Discovered by scanning header rows 11 and 12.
type OutcomeColumn struct {
	// Column is the 1-indexed worksheet column.
	Column int

	// Outcome is the course-outcome number from row 12 (CO1 = 1, ...).
	Outcome int
}

// StudentMarks is one student's row from one evaluation sheet.
type StudentMarks struct {
	// RegNo is the registration number, trimmed. It is the stable key used
	// for merging across sheets.
	RegNo string

	// Name is the display name, trimmed.
	Name string

	// OutcomeMarks maps outcome number to the mark in that outcome's subtotal
	// column. Blank or unparseable cells are recorded as 0.
	OutcomeMarks map[int]float64

	// Total is the grand-total column value, 0 if absent or unreadable.
	Total float64
}

// OutcomeMaxima holds the maximum achievable marks declared on row 13.
type OutcomeMaxima struct {
	// ByOutcome maps outcome number to its maximum mark.
	ByOutcome map[int]float64

	// Total is the grand-total column's maximum, 0 if absent.
	Total float64
}

// CellAdvisory records a mark cell whose non-blank text could not be read
// as a number and was coerced to 0. Blank cells coerce silently. Advisories
// never block generation; they surface in logs and the audit report so
// data-entry errors are not completely masked by the zero.
type CellAdvisory struct {
	// Source identifies the sheet the cell came from.
	Source string

	// Row and Column are 1-indexed worksheet coordinates.
	Row    int
	Column int

	// Raw is the original cell text before coercion.
	Raw string
}

// AssessmentSheet is the read-only snapshot of one parsed evaluation sheet.
// It is constructed by the extract package and never mutated afterwards.
type AssessmentSheet struct {
	// Metadata holds the fixed-position header fields.
	Metadata SheetMetadata

	// OutcomeColumns lists the discovered outcome-subtotal columns in
	// ascending column order.
	OutcomeColumns []OutcomeColumn

	// TotalColumn is the grand-total column, 0 when the sheet has none.
	TotalColumn int

	// Students maps registration number to that student's marks row.
	Students map[string]StudentMarks

	// Maxima holds the declared per-outcome and total maximum marks.
	Maxima OutcomeMaxima

	// Advisories lists every cell coerced during extraction, in scan order.
	Advisories []CellAdvisory
}

// =============================================================================
// MERGE TYPES
// =============================================================================

// MergedStudent is one student's consolidated record across all assessments.
// Outcome values follow first-assessment-wins: once an outcome number has a
// value, later assessments do not overwrite it.
type MergedStudent struct {
	// RegNo is the registration number.
	RegNo string

	// Name is taken from the first assessment that saw this student.
	Name string

	// OutcomeMarks maps outcome number to the retained mark.
	OutcomeMarks map[int]float64
}
