// =============================================================================
// Attainment Sheet Generator - Template Column Mappings
// =============================================================================
//
// A ColumnMapping describes where merged student marks land inside an
// attainment template: the first data row, the register-number and name
// columns, and for each course outcome the template column that receives
// each assessment's mark.
//
// The tables mirror the issued template layouts. Combinations without a
// dedicated table fall back to the R17 department theory layout, which the
// later regulation templates kept column-compatible.
//
// =============================================================================

package template

import (
	"sort"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

// =============================================================================
// COLUMN MAPPING
// =============================================================================

// ColumnMapping locates the writable cells of one attainment template.
type ColumnMapping struct {
	// DataStartRow is the first row that receives student data (1-indexed).
	DataStartRow int

	// RegNoCol and NameCol receive the register number and student name.
	RegNoCol int
	NameCol  int

	// OutcomeColumns maps a course outcome number to the template column
	// for each assessment that reports it. Outcomes a template does not
	// break out (project CO5) are simply absent.
	OutcomeColumns map[int]map[types.AssessmentType]int
}

// Outcomes returns the mapped outcome numbers in ascending order.
func (m ColumnMapping) Outcomes() []int {
	outcomes := make([]int, 0, len(m.OutcomeColumns))
	for co := range m.OutcomeColumns {
		outcomes = append(outcomes, co)
	}
	sort.Ints(outcomes)
	return outcomes
}

// Assessments returns the assessments of one outcome in lexical order.
func (m ColumnMapping) Assessments(outcome int) []types.AssessmentType {
	cols := m.OutcomeColumns[outcome]
	assessments := make([]types.AssessmentType, 0, len(cols))
	for at := range cols {
		assessments = append(assessments, at)
	}
	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i] < assessments[j]
	})
	return assessments
}

// =============================================================================
// MAPPING TABLES
// =============================================================================

// r17DeptTheory is the department theory layout: each outcome block carries
// an internal-assessment column and a model-exam column, CO5 model-only.
var r17DeptTheory = ColumnMapping{
	DataStartRow: 7,
	RegNoCol:     2,
	NameCol:      3,
	OutcomeColumns: map[int]map[types.AssessmentType]int{
		1: {types.IA1: 4, types.Model: 5},
		2: {types.IA1: 8, types.Model: 9},
		3: {types.IA2: 12, types.Model: 13},
		4: {types.IA2: 16, types.Model: 17},
		5: {types.Model: 20},
	},
}

// r17SHTheory tracks the department layout today; the S&H templates have
// historically been issued separately, so the table stays separate.
var r17SHTheory = ColumnMapping{
	DataStartRow: 7,
	RegNoCol:     2,
	NameCol:      3,
	OutcomeColumns: map[int]map[types.AssessmentType]int{
		1: {types.IA1: 4, types.Model: 5},
		2: {types.IA1: 8, types.Model: 9},
		3: {types.IA2: 12, types.Model: 13},
		4: {types.IA2: 16, types.Model: 17},
		5: {types.Model: 20},
	},
}

// r17Lab holds one lab column per outcome.
var r17Lab = ColumnMapping{
	DataStartRow: 7,
	RegNoCol:     2,
	NameCol:      3,
	OutcomeColumns: map[int]map[types.AssessmentType]int{
		1: {types.Lab: 4},
		2: {types.Lab: 5},
		3: {types.Lab: 6},
		4: {types.Lab: 7},
		5: {types.Lab: 8},
	},
}

// r17Project groups columns by review round; the template computes CO5
// itself, so it takes no direct marks.
var r17Project = ColumnMapping{
	DataStartRow: 7,
	RegNoCol:     2,
	NameCol:      3,
	OutcomeColumns: map[int]map[types.AssessmentType]int{
		1: {types.Review1: 4, types.Review2: 8, types.Review3: 12},
		2: {types.Review1: 5, types.Review2: 9, types.Review3: 13},
		3: {types.Review1: 6, types.Review2: 10, types.Review3: 14},
		4: {types.Review1: 7, types.Review2: 11, types.Review3: 15},
	},
}

// =============================================================================
// MAPPING LOOKUP
// =============================================================================

// mappingKey identifies one combination in the mapping table.
type mappingKey struct {
	regulation types.Regulation
	category   types.Category
	deptType   types.DeptType
}

var mappingTable = map[mappingKey]ColumnMapping{
	{types.R17, types.Theory, types.DeptCore}:        r17DeptTheory,
	{types.R17, types.Theory, types.DeptScience}:     r17SHTheory,
	{types.R17, types.Analytical, types.DeptCore}:    r17DeptTheory,
	{types.R17, types.Analytical, types.DeptScience}: r17DeptTheory,
	{types.R17, types.LabCourse, types.DeptDefault}:  r17Lab,
	{types.R17, types.Project, types.DeptDefault}:    r17Project,
}

// MappingFor selects the column mapping for a combination. Lab and project
// layouts do not vary by department, so the lookup retries with the default
// department type; combinations with no table entry fall back to the R17
// department theory layout.
func MappingFor(reg types.Regulation, cat types.Category, dept types.DeptType) ColumnMapping {
	if m, ok := mappingTable[mappingKey{reg, cat, dept}]; ok {
		return m
	}
	if m, ok := mappingTable[mappingKey{reg, cat, types.DeptDefault}]; ok {
		return m
	}
	return r17DeptTheory
}
