// =============================================================================
// Attainment Sheet Generator - Merge Engine
// =============================================================================
//
// Consolidates the per-assessment student records into one roster keyed by
// registration number.
//
// MERGE POLICY:
//   Assessments are visited in the caller-supplied order. The first
//   assessment to mention a student contributes the display name; the first
//   assessment to report an outcome for a student contributes that
//   outcome's mark. Later assessments never overwrite either.
//
// =============================================================================

package generator

import (
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

// Merge builds the consolidated student map from per-assessment records.
// The order slice controls which assessments participate and in what
// precedence; assessments missing from the records map are skipped. An
// empty input yields an empty map.
func Merge(
	order []types.AssessmentType,
	perAssessment map[types.AssessmentType]map[string]types.StudentMarks,
) map[string]*types.MergedStudent {
	merged := make(map[string]*types.MergedStudent)

	for _, at := range order {
		records, ok := perAssessment[at]
		if !ok {
			continue
		}

		for regNo, marks := range records {
			entry, ok := merged[regNo]
			if !ok {
				entry = &types.MergedStudent{
					RegNo:        regNo,
					Name:         marks.Name,
					OutcomeMarks: make(map[int]float64),
				}
				merged[regNo] = entry
			}

			for co, mark := range marks.OutcomeMarks {
				if _, exists := entry.OutcomeMarks[co]; !exists {
					entry.OutcomeMarks[co] = mark
				}
			}
		}
	}

	return merged
}
