// =============================================================================
// Attainment Sheet Generator - Regulation & Assessment Classification
// =============================================================================
//
// Pure classification helpers with no I/O dependency. They turn the free-text
// regulation and assessment-name fields of an evaluation sheet into the
// canonical codes the registry and column mappings are keyed by.
//
// =============================================================================

package extract

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

// regulationYear extracts a two-digit curriculum year from forms like
// "R2017 - AUC", "2021", or "Regulation 2017". Already-canonical codes such
// as "R17" do not match and pass through unchanged.
var regulationYear = regexp.MustCompile(`R?20?(\d{2})`)

// NormalizeRegulation reduces a free-text regulation string to its canonical
// code ("R17", "R21", "R24"). Strings without a recognizable year are
// returned uppercased and otherwise verbatim, so unnormalizable input fails
// downstream equality checks loudly instead of being coerced.
func NormalizeRegulation(reg string) string {
	reg = strings.ToUpper(reg)
	if m := regulationYear.FindStringSubmatch(reg); m != nil {
		return "R" + m[1]
	}
	return reg
}

// DetectAssessmentType classifies a free-text assessment name into its
// canonical tag. Keyword rules are ordered and the first match wins; the
// digit lookups are plain substring checks over the whole name, so a name
// like "REVIEW OF TOPIC 10" classifies by the first digit it contains.
func DetectAssessmentType(name string) types.AssessmentType {
	n := strings.ToUpper(name)

	switch {
	case strings.Contains(n, "INTERNAL") || strings.Contains(n, "IA"):
		if strings.Contains(n, "1") {
			return types.IA1
		}
		if strings.Contains(n, "2") {
			return types.IA2
		}

	case strings.Contains(n, "MODEL"):
		return types.Model

	case strings.Contains(n, "LAB"):
		return types.Lab

	case strings.Contains(n, "PROJECT") || strings.Contains(n, "REVIEW"):
		if strings.Contains(n, "1") {
			return types.Review1
		}
		if strings.Contains(n, "2") {
			return types.Review2
		}
		if strings.Contains(n, "3") {
			return types.Review3
		}

	case strings.Contains(n, "INTEGRATED"):
		return types.Integrated
	}

	return types.Unknown
}
