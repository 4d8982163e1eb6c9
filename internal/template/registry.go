// =============================================================================
// Attainment Sheet Generator - Template Registry
// =============================================================================
//
// Maps a (regulation, category, department-type) combination to the physical
// attainment template file and to the ordered list of evaluation sheets that
// combination requires as input.
//
// DIRECTORY LAYOUT:
//   <templateDir>/Reg_17/<template>.xlsx
//   <templateDir>/Reg_21/<template>.xlsx
//   <templateDir>/Reg_24/<template>.xlsx
//
// The tables below are immutable; deployments relocate the template
// directory through the application configuration but do not edit the
// tables. R24 reuses the R21 template files until dedicated R24 layouts are
// issued.
//
// =============================================================================

package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// UnknownCombinationError indicates a (regulation, category, dept-type)
// combination the registry has no entry for.
type UnknownCombinationError struct {
	// Regulation, Category, DeptType echo the offending lookup.
	Regulation types.Regulation
	Category   types.Category
	DeptType   types.DeptType

	// Valid lists the accepted values for the first unknown component.
	Valid []string
}

func (e *UnknownCombinationError) Error() string {
	switch {
	case e.Category == "" && e.DeptType == "":
		return fmt.Sprintf("unknown regulation: %s (valid options: %s)",
			e.Regulation, strings.Join(e.Valid, ", "))
	case e.DeptType == "":
		return fmt.Sprintf("unknown category: %s for %s (valid options: %s)",
			e.Category, e.Regulation, strings.Join(e.Valid, ", "))
	default:
		return fmt.Sprintf("unknown department type: %s for %s/%s",
			e.DeptType, e.Regulation, e.Category)
	}
}

// TemplateNotFoundError indicates that the registry resolved a combination
// but the template file is absent on disk.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

// =============================================================================
// REGISTRY TABLES
// =============================================================================

// templateEntry binds one combination to its template file name. Entries are
// ordered; enumeration methods preserve this order.
type templateEntry struct {
	regulation types.Regulation
	category   types.Category
	deptType   types.DeptType
	filename   string
}

var defaultTemplates = []templateEntry{
	{types.R17, types.Theory, types.DeptCore, "Dept THEORY template_ R17 V3 AtSheet.xlsx"},
	{types.R17, types.Theory, types.DeptScience, "S&H THEORY template _R17 V3 AtSheet.xlsx"},
	{types.R17, types.Analytical, types.DeptCore, "Dept THEORY Analytical template_R17 V3 AtSheet.xlsx"},
	{types.R17, types.Analytical, types.DeptScience, "S&H THEORY template Analytical_R17 V3 AtSheet.xlsx"},
	{types.R17, types.LabCourse, types.DeptDefault, "LAB template_R17 V3 AtSheet.xlsx"},
	{types.R17, types.Project, types.DeptDefault, "Project template_R17 V3 AtSheet.xlsx"},

	{types.R21, types.Theory, types.DeptCore, "Dept THEORY  template_R21 V1 AtSheet.xlsx"},
	{types.R21, types.Theory, types.DeptScience, "Dept THEORY  template_R21 V1 AtSheet.xlsx"},
	{types.R21, types.Analytical, types.DeptCore, "Dept THEORY Analytical template_R21 V1 AtSheet.xlsx"},
	{types.R21, types.Analytical, types.DeptScience, "Dept THEORY Analytical template_R21 V1 AtSheet.xlsx"},
	{types.R21, types.IntegratedKind, types.DeptCore, "Dept Integrated template_R21 V1 AtSheet.xlsx"},
	{types.R21, types.IntegratedKind, types.DeptScience, "Dept Integrated template_R21 V1 AtSheet.xlsx"},
	{types.R21, types.LabCourse, types.DeptDefault, "LAB template_R21 V1AtSheet.xlsx"},
	{types.R21, types.Project, types.DeptDefault, "Project template_R21 V1 AtSheet.xlsx"},

	{types.R24, types.Theory, types.DeptCore, "Dept THEORY  template_R21 V1 AtSheet.xlsx"},
	{types.R24, types.Theory, types.DeptScience, "Dept THEORY  template_R21 V1 AtSheet.xlsx"},
	{types.R24, types.Analytical, types.DeptCore, "Dept THEORY Analytical template_R21 V1 AtSheet.xlsx"},
	{types.R24, types.Analytical, types.DeptScience, "Dept THEORY Analytical template_R21 V1 AtSheet.xlsx"},
	{types.R24, types.IntegratedKind, types.DeptCore, "Dept Integrated template_R21 V1 AtSheet.xlsx"},
	{types.R24, types.IntegratedKind, types.DeptScience, "Dept Integrated template_R21 V1 AtSheet.xlsx"},
	{types.R24, types.LabCourse, types.DeptDefault, "LAB template_R21 V1AtSheet.xlsx"},
	{types.R24, types.Project, types.DeptDefault, "Project template_R21 V1 AtSheet.xlsx"},
}

// inputsEntry binds one (regulation, category) to the ordered assessment
// sheets that combination needs. The order doubles as the merge order, so it
// must stay stable.
type inputsEntry struct {
	regulation types.Regulation
	category   types.Category
	inputs     []types.AssessmentType
}

var defaultInputs = []inputsEntry{
	{types.R17, types.Theory, []types.AssessmentType{types.IA1, types.IA2, types.Model}},
	{types.R17, types.Analytical, []types.AssessmentType{types.IA1, types.IA2, types.Model}},
	{types.R17, types.LabCourse, []types.AssessmentType{types.Lab}},
	{types.R17, types.Project, []types.AssessmentType{types.Review1, types.Review2, types.Review3}},

	{types.R21, types.Theory, []types.AssessmentType{types.IA1, types.IA2, types.Integrated}},
	{types.R21, types.Analytical, []types.AssessmentType{types.IA1, types.IA2, types.Integrated}},
	{types.R21, types.IntegratedKind, []types.AssessmentType{types.IA1, types.IA2, types.Integrated}},
	{types.R21, types.LabCourse, []types.AssessmentType{types.Lab}},
	{types.R21, types.Project, []types.AssessmentType{types.Review1, types.Review2, types.Review3}},

	{types.R24, types.Theory, []types.AssessmentType{types.IA1, types.IA2, types.Integrated}},
	{types.R24, types.Analytical, []types.AssessmentType{types.IA1, types.IA2, types.Integrated}},
	{types.R24, types.IntegratedKind, []types.AssessmentType{types.IA1, types.IA2, types.Integrated}},
	{types.R24, types.LabCourse, []types.AssessmentType{types.Lab}},
	{types.R24, types.Project, []types.AssessmentType{types.Review1, types.Review2, types.Review3}},
}

// regulationFolders maps a regulation to its subdirectory under the template
// root. Unknown regulations fall back to the R17 folder.
var regulationFolders = map[types.Regulation]string{
	types.R17: "Reg_17",
	types.R21: "Reg_21",
	types.R24: "Reg_24",
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry resolves template files and required inputs for attainment
// generation. Safe for concurrent use; all state is immutable after
// construction.
type Registry struct {
	templateDir string
}

// NewRegistry returns a registry rooted at the given template directory.
func NewRegistry(templateDir string) *Registry {
	return &Registry{templateDir: templateDir}
}

// TemplatePath resolves the template file for a combination. When the
// category has no entry for the requested department type it falls back to
// the category's "default" entry before failing. The file must exist on
// disk.
func (r *Registry) TemplatePath(reg types.Regulation, cat types.Category, dept types.DeptType) (string, error) {
	filename, err := r.templateFile(reg, cat, dept)
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.templateDir, RegulationFolder(reg), filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", &TemplateNotFoundError{Path: path}
	}
	return path, nil
}

// templateFile looks up the file name for a combination, applying the
// default-dept-type fallback.
func (r *Registry) templateFile(reg types.Regulation, cat types.Category, dept types.DeptType) (string, error) {
	if !r.hasRegulation(reg) {
		return "", &UnknownCombinationError{Regulation: reg, Valid: r.regulationNames()}
	}
	if !r.hasCategory(reg, cat) {
		return "", &UnknownCombinationError{Regulation: reg, Category: cat, Valid: r.categoryNames(reg)}
	}

	var fallback string
	for _, e := range defaultTemplates {
		if e.regulation != reg || e.category != cat {
			continue
		}
		if e.deptType == dept {
			return e.filename, nil
		}
		if e.deptType == types.DeptDefault {
			fallback = e.filename
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", &UnknownCombinationError{Regulation: reg, Category: cat, DeptType: dept}
}

// RequiredInputs returns the ordered assessment sheets a combination needs.
func (r *Registry) RequiredInputs(reg types.Regulation, cat types.Category) ([]types.AssessmentType, error) {
	if !r.hasRegulation(reg) {
		return nil, &UnknownCombinationError{Regulation: reg, Valid: r.regulationNames()}
	}
	for _, e := range defaultInputs {
		if e.regulation == reg && e.category == cat {
			return e.inputs, nil
		}
	}
	return nil, &UnknownCombinationError{Regulation: reg, Category: cat, Valid: r.categoryNames(reg)}
}

// Regulations enumerates the known regulations in table order.
func (r *Registry) Regulations() []types.Regulation {
	var regs []types.Regulation
	seen := make(map[types.Regulation]bool)
	for _, e := range defaultTemplates {
		if !seen[e.regulation] {
			seen[e.regulation] = true
			regs = append(regs, e.regulation)
		}
	}
	return regs
}

// Categories enumerates the categories of one regulation in table order.
// Unknown regulations yield an empty list.
func (r *Registry) Categories(reg types.Regulation) []types.Category {
	var cats []types.Category
	seen := make(map[types.Category]bool)
	for _, e := range defaultTemplates {
		if e.regulation == reg && !seen[e.category] {
			seen[e.category] = true
			cats = append(cats, e.category)
		}
	}
	return cats
}

// DeptTypes enumerates the department types of one combination. Categories
// with only a "default" entry report just that; otherwise "default" is
// filtered out so the CLI offers only meaningful choices.
func (r *Registry) DeptTypes(reg types.Regulation, cat types.Category) []types.DeptType {
	var depts []types.DeptType
	for _, e := range defaultTemplates {
		if e.regulation == reg && e.category == cat {
			depts = append(depts, e.deptType)
		}
	}
	if len(depts) == 1 && depts[0] == types.DeptDefault {
		return depts
	}
	filtered := depts[:0]
	for _, d := range depts {
		if d != types.DeptDefault {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// TemplateInfo describes one registry entry for display.
type TemplateInfo struct {
	Regulation types.Regulation
	Category   types.Category
	DeptType   types.DeptType
	Filename   string
}

// Entries lists every registry entry in table order, for display by the
// templates command.
func (r *Registry) Entries() []TemplateInfo {
	entries := make([]TemplateInfo, len(defaultTemplates))
	for i, e := range defaultTemplates {
		entries[i] = TemplateInfo{
			Regulation: e.regulation,
			Category:   e.category,
			DeptType:   e.deptType,
			Filename:   e.filename,
		}
	}
	return entries
}

// RegulationFolder returns the template subdirectory for a regulation.
func RegulationFolder(reg types.Regulation) string {
	if folder, ok := regulationFolders[reg]; ok {
		return folder
	}
	return "Reg_17"
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

func (r *Registry) hasRegulation(reg types.Regulation) bool {
	for _, e := range defaultTemplates {
		if e.regulation == reg {
			return true
		}
	}
	return false
}

func (r *Registry) hasCategory(reg types.Regulation, cat types.Category) bool {
	for _, e := range defaultTemplates {
		if e.regulation == reg && e.category == cat {
			return true
		}
	}
	return false
}

func (r *Registry) regulationNames() []string {
	regs := r.Regulations()
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = string(reg)
	}
	return names
}

func (r *Registry) categoryNames(reg types.Regulation) []string {
	cats := r.Categories(reg)
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = string(cat)
	}
	return names
}
