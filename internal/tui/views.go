package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/generator"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/template"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/validation"
	"github.com/ginjaninja78/attainment-sheet-generator/pkg/utils"
)

// RenderTitle renders a section title.
func RenderTitle(s string) string {
	return titleStyle.Render(s)
}

// RenderValidationResult renders the cross-sheet validation outcome. All
// errors are shown; warnings beyond showWarnings collapse into a count.
func RenderValidationResult(res *validation.Result, showWarnings int) string {
	var b strings.Builder

	if res.IsValid {
		b.WriteString(successStyle.Render("Validation Passed") + "\n")
	} else {
		b.WriteString(errorStyle.Render("Validation Failed") + "\n")
	}

	for _, e := range res.Errors {
		b.WriteString(listItemStyle.Render(errorStyle.Render("✗ ")+e.Message) + "\n")
	}

	shown := 0
	for _, w := range res.Warnings {
		if showWarnings > 0 && shown >= showWarnings {
			break
		}
		b.WriteString(listItemStyle.Render(warningStyle.Render("! ")+w.Message) + "\n")
		shown++
	}
	if remaining := len(res.Warnings) - shown; remaining > 0 {
		b.WriteString(listItemStyle.Render(mutedStyle.Render(fmt.Sprintf("... and %d more warnings", remaining))) + "\n")
	}

	return b.String()
}

// RenderGenerationResult renders the outcome of one generation, including
// its validation findings.
func RenderGenerationResult(res generator.Result, showWarnings int) string {
	var b strings.Builder

	if res.Validation != nil {
		b.WriteString(RenderValidationResult(res.Validation, showWarnings))
		b.WriteString("\n")
	}

	if !res.Success {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Generation failed: %v", res.Error)) + "\n")
		return b.String()
	}

	var box strings.Builder
	box.WriteString(successStyle.Render("Attainment sheet generated") + "\n\n")
	box.WriteString(fmt.Sprintf("Output:   %s\n", res.OutputFile))
	box.WriteString(fmt.Sprintf("Students: %d\n", res.Stats.StudentsMerged))
	box.WriteString(fmt.Sprintf("Sheets:   %d\n", res.Stats.SheetsParsed))
	box.WriteString(fmt.Sprintf("Duration: %s", res.Stats.ProcessingTime.Round(time.Millisecond)))
	b.WriteString(boxStyle.Render(box.String()) + "\n")

	if res.Stats.CellsCoerced > 0 {
		b.WriteString(warningStyle.Render(
			fmt.Sprintf("%d mark cells were unreadable and treated as 0", res.Stats.CellsCoerced)) + "\n")
	}

	return b.String()
}

// RenderAdvisories renders coerced-cell advisories, collapsing beyond max.
func RenderAdvisories(advisories []types.CellAdvisory, max int) string {
	if len(advisories) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(warningStyle.Render("Unreadable mark cells (treated as 0):") + "\n")

	shown := 0
	for _, a := range advisories {
		if max > 0 && shown >= max {
			break
		}
		b.WriteString(listItemStyle.Render(
			fmt.Sprintf("%s row %d col %d: %q", a.Source, a.Row, a.Column, a.Raw)) + "\n")
		shown++
	}
	if remaining := len(advisories) - shown; remaining > 0 {
		b.WriteString(listItemStyle.Render(mutedStyle.Render(fmt.Sprintf("... and %d more", remaining))) + "\n")
	}

	return b.String()
}

// RenderTemplates renders the registry as a per-regulation listing, marking
// entries whose template file is missing from the template directory.
func RenderTemplates(reg *template.Registry, templateDir string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Available Templates") + "\n")

	var current types.Regulation
	for _, entry := range reg.Entries() {
		if entry.Regulation != current {
			current = entry.Regulation
			b.WriteString("\n" + subtitleStyle.Render(
				fmt.Sprintf("%s (%s/)", current, template.RegulationFolder(current))) + "\n")
		}

		path := filepath.Join(templateDir, template.RegulationFolder(entry.Regulation), entry.Filename)
		status := successStyle.Render("✓")
		if !utils.FileExists(path) {
			status = errorStyle.Render("missing")
		}

		b.WriteString(listItemStyle.Render(
			fmt.Sprintf("%-12s %-8s %-45s %s", entry.Category, entry.DeptType, entry.Filename, status)) + "\n")
	}

	return b.String()
}

// RenderInspection renders one parsed sheet for the inspect command.
func RenderInspection(sheet *types.AssessmentSheet, detected types.AssessmentType, normalizedReg string) string {
	var b strings.Builder

	meta := sheet.Metadata
	var box strings.Builder
	box.WriteString(titleStyle.Render(meta.SourceName) + "\n")
	box.WriteString(fmt.Sprintf("Course:      %s %s\n", meta.CourseCode, meta.CourseName))
	box.WriteString(fmt.Sprintf("Faculty:     %s\n", meta.FacultyName))
	box.WriteString(fmt.Sprintf("Year/Class:  %s / %s\n", meta.AcademicYear, meta.ClassInfo))
	box.WriteString(fmt.Sprintf("Regulation:  %s (normalized: %s)\n", meta.Regulation, normalizedReg))
	box.WriteString(fmt.Sprintf("Assessment:  %s (detected: %s)", meta.AssessmentName, detected))
	b.WriteString(boxStyle.Render(box.String()) + "\n\n")

	b.WriteString(subtitleStyle.Render("Outcome columns") + "\n")
	for _, oc := range sheet.OutcomeColumns {
		max := sheet.Maxima.ByOutcome[oc.Outcome]
		b.WriteString(listItemStyle.Render(
			fmt.Sprintf("CO%d at column %d (max %g)", oc.Outcome, oc.Column, max)) + "\n")
	}
	if sheet.TotalColumn > 0 {
		b.WriteString(listItemStyle.Render(
			fmt.Sprintf("Total at column %d (max %g)", sheet.TotalColumn, sheet.Maxima.Total)) + "\n")
	}

	b.WriteString("\n" + fmt.Sprintf("Students: %d", len(sheet.Students)) + "\n")

	if adv := RenderAdvisories(sheet.Advisories, 10); adv != "" {
		b.WriteString("\n" + adv)
	}

	return b.String()
}
