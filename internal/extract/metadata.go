// =============================================================================
// Attainment Sheet Generator - Metadata Extraction
// =============================================================================
//
// Reads the eight fixed-position header fields of an evaluation sheet. The
// layout is intentionally positional: any sheet not conforming to it produces
// wrong or empty metadata rather than an error here, and the cross-sheet
// validator is the safety net that catches the resulting inconsistencies.
//
// SHEET LAYOUT (1-indexed, values in column 3):
//   row 2: course code        row 6: class info
//   row 3: course name        row 7: regulation
//   row 4: faculty name       row 8: total students
//   row 5: academic year      row 9: assessment name
//
// =============================================================================

package extract

import (
	"strings"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
)

// metadataCol is the worksheet column holding every metadata value.
const metadataCol = 3

// Metadata row positions.
const (
	rowCourseCode     = 2
	rowCourseName     = 3
	rowFacultyName    = 4
	rowAcademicYear   = 5
	rowClassInfo      = 6
	rowRegulation     = 7
	rowTotalStudents  = 8
	rowAssessmentName = 9
)

// Metadata reads the header fields from the workbook's active sheet. Blank
// or missing cells yield empty strings, never an error.
func Metadata(w *xlsxreader.Workbook) types.SheetMetadata {
	field := func(row int) string {
		return strings.TrimSpace(w.Cell(row, metadataCol))
	}

	return types.SheetMetadata{
		CourseCode:     field(rowCourseCode),
		CourseName:     field(rowCourseName),
		FacultyName:    field(rowFacultyName),
		AcademicYear:   field(rowAcademicYear),
		ClassInfo:      field(rowClassInfo),
		Regulation:     field(rowRegulation),
		TotalStudents:  field(rowTotalStudents),
		AssessmentName: field(rowAssessmentName),
		SourceName:     w.Source().Name(),
	}
}
