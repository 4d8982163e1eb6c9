// =============================================================================
// Attainment Sheet Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which is the main command for
// producing an attainment sheet. It orchestrates the entire generation
// pipeline.
//
// COMMAND USAGE:
//   attaingen generate [flags]
//
// FLAGS:
//   --regulation  : Regulation code (R17, R21, R24)
//   --category    : Course category (theory, analytical, lab, project, integrated)
//   --dept-type   : Department type for theory/analytical courses (dept, s&h)
//   --input       : Input sheet as TAG=path, repeatable (e.g. IA1=ia1.xlsx)
//   --output-dir  : Directory for the generated sheet (defaults to config)
//   --audit       : Write a per-student CSV audit report to this path
//   --force       : Generate even when cross-sheet validation reports errors
//   --stage       : Copy the inputs into a work session before reading them
//   --interactive : Pick the combination and input sheets through a form
//
// GENERATION PIPELINE:
//   1. Load configuration
//   2. Prepare the workspace directories and clean stale work sessions
//   3. Resolve the generation request (flags or interactive form)
//   4. Optionally stage the input sheets into a work session
//   5. Run the generator (validate, extract, merge, fill, save)
//   6. Render the result
//   7. Write validation and summary logs
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/generator"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/tui"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
	"github.com/ginjaninja78/attainment-sheet-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// regulation is the regulation code of the course (R17, R21, R24).
var regulation string

// category is the course category (theory, analytical, lab, project, integrated).
var category string

// deptType selects the template variant for theory and analytical courses.
var deptType string

// inputPairs holds the raw TAG=path input flags in the order they were given.
var inputPairs []string

// outputDir overrides the configured output directory when non-empty.
var outputDir string

// auditPath is the destination of the optional per-student CSV audit report.
var auditPath string

// force continues generation despite cross-sheet validation errors.
var force bool

// stage copies the input sheets into a work session before reading them.
var stage bool

// interactive resolves the request through a terminal form instead of flags.
var interactive bool

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an attainment sheet from evaluation workbooks",
	Long: `The generate command reads the evaluation workbooks for one course,
cross-validates them, merges the per-student outcome marks, and fills the
attainment template that matches the regulation, category, and department type.

Each input sheet is supplied as TAG=path, where TAG names the assessment the
sheet holds (IA1, IA2, Model, Lab, Review1, Review2, Review3, Integrated).
The set of required tags depends on the regulation and category; 'attaingen
templates' lists the known combinations.

Validation errors normally abort generation. With --force the sheets are still
merged as long as every input could be read; the validation findings are kept
in the log either way.

The generated sheet is written to the output directory under a unique name
derived from the course code, course name, and a timestamp. Existing files are
never overwritten.`,

	// RunE is like Run but returns an error. This is preferred for commands
	// that can fail, as it allows Cobra to handle the error gracefully.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the generate command with the root command and sets up flags.
func init() {
	// Add the generate command to the root command.
	rootCmd.AddCommand(generateCmd)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================
	// Local flags are only available to this command.

	// --regulation flag: Regulation code of the course.
	generateCmd.Flags().StringVarP(
		&regulation,
		"regulation",
		"r",
		"",
		"Regulation code (R17, R21, R24)",
	)

	// --category flag: Course category.
	generateCmd.Flags().StringVarP(
		&category,
		"category",
		"c",
		"",
		"Course category (theory, analytical, lab, project, integrated)",
	)

	// --dept-type flag: Template variant for theory/analytical courses.
	generateCmd.Flags().StringVarP(
		&deptType,
		"dept-type",
		"d",
		"dept",
		"Department type (dept, s&h); ignored for categories without a split",
	)

	// --input flag: One input sheet as TAG=path. Repeatable.
	generateCmd.Flags().StringArrayVarP(
		&inputPairs,
		"input",
		"i",
		nil,
		"Input sheet as TAG=path (e.g. IA1=ia1.xlsx); repeat per sheet",
	)

	// --output-dir flag: Override the configured output directory.
	generateCmd.Flags().StringVarP(
		&outputDir,
		"output-dir",
		"o",
		"",
		"Directory for the generated sheet (defaults to the configured one)",
	)

	// --audit flag: Destination of the per-student CSV audit report.
	generateCmd.Flags().StringVar(
		&auditPath,
		"audit",
		"",
		"Write a per-student CSV audit report to this path",
	)

	// --force flag: Continue despite validation errors.
	generateCmd.Flags().BoolVar(
		&force,
		"force",
		false,
		"Generate even when cross-sheet validation reports errors",
	)

	// --stage flag: Copy the inputs into a work session first.
	generateCmd.Flags().BoolVar(
		&stage,
		"stage",
		false,
		"Copy the input sheets into a work session before reading them",
	)

	// --interactive flag: Resolve the request through a terminal form.
	generateCmd.Flags().BoolVarP(
		&interactive,
		"interactive",
		"I",
		false,
		"Pick the regulation, category, and input sheets interactively",
	)
}

// =============================================================================
// MAIN GENERATION FUNCTION
// =============================================================================

// runGenerate orchestrates the generation pipeline.
func runGenerate() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println(tui.RenderTitle("Attainment Sheet Generator"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// =========================================================================
	// STEP 2: PREPARE WORKSPACE
	// =========================================================================
	// Create the output, work, and log directories, then drop work sessions
	// left behind by earlier runs.

	fm := utils.NewFileManager(cfg.TemplateDir, cfg.OutputDir, cfg.WorkDir, cfg.LogDir)
	if err := fm.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to prepare directories: %w", err)
	}

	maxAge := time.Duration(cfg.CleanupMaxAgeHours) * time.Hour
	if removed, err := utils.CleanupOldFiles(cfg.WorkDir, maxAge); err != nil {
		fmt.Printf("Warning: work directory cleanup failed: %v\n", err)
	} else if removed > 0 {
		fmt.Printf("Cleaned %d stale work file(s)\n", removed)
	}

	// =========================================================================
	// STEP 3: RESOLVE THE GENERATION REQUEST
	// =========================================================================
	// Either run the interactive form or parse the flag set into a request.

	gen := generator.New(cfg)
	gen.SetLogger(&cliLogger{})

	var reg types.Regulation
	var cat types.Category
	var dept types.DeptType
	var order []types.AssessmentType
	var paths map[types.AssessmentType]string

	if interactive {
		form, err := tui.ShowGenerateForm(gen.Registry())
		if err != nil {
			return fmt.Errorf("failed to run form: %w", err)
		}
		reg = types.ParseRegulation(form.Regulation)
		cat = types.ParseCategory(form.Category)
		dept = types.ParseDeptType(form.DeptType)
		order, err = gen.Registry().RequiredInputs(reg, cat)
		if err != nil {
			return err
		}
		paths = form.InputPaths
	} else {
		if regulation == "" || category == "" {
			return fmt.Errorf("both --regulation and --category are required (or use --interactive)")
		}
		reg = types.ParseRegulation(regulation)
		cat = types.ParseCategory(category)
		dept = types.ParseDeptType(deptType)
		order, paths, err = parseInputFlags(inputPairs)
		if err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 4: STAGE INPUTS
	// =========================================================================
	// With --stage the originals stay untouched and the generator reads the
	// session copies instead.

	inputFiles := make([]string, 0, len(order))
	for _, tag := range order {
		inputFiles = append(inputFiles, paths[tag])
	}

	if stage {
		sessionDir, staged, err := fm.StageInputs(inputFiles)
		if err != nil {
			return fmt.Errorf("failed to stage inputs: %w", err)
		}
		fmt.Printf("Staged %d input(s) in %s\n", len(staged), sessionDir)
		for i, tag := range order {
			paths[tag] = staged[i]
		}
	}

	// =========================================================================
	// STEP 5: RUN THE GENERATOR
	// =========================================================================

	inputs := make(map[types.AssessmentType]xlsxreader.Source, len(paths))
	for tag, path := range paths {
		inputs[tag] = xlsxreader.FromPath(path)
	}

	res := gen.Run(generator.Request{
		Regulation: reg,
		Category:   cat,
		DeptType:   dept,
		Inputs:     inputs,
		OutputDir:  outputDir,
		AuditPath:  auditPath,
		Force:      force,
	})

	// =========================================================================
	// STEP 6: RENDER THE RESULT
	// =========================================================================

	fmt.Println(tui.RenderGenerationResult(res, cfg.ShowWarnings))

	// =========================================================================
	// STEP 7: WRITE LOGS
	// =========================================================================
	// Log writing never fails the run; the generated sheet is already on disk.

	if logPath, err := utils.WriteValidationLog(validationLogEntries(res), cfg.LogDir); err != nil {
		fmt.Printf("Warning: could not write validation log: %v\n", err)
	} else if logPath != "" {
		fmt.Printf("Validation log: %s\n", logPath)
	}

	summary := utils.GenerationSummary{
		StartTime:    startTime,
		EndTime:      time.Now(),
		Regulation:   string(reg),
		Category:     string(cat),
		DeptType:     string(dept),
		InputFiles:   inputFiles,
		OutputFile:   res.OutputFile,
		StudentCount: res.Stats.StudentsMerged,
		CoercedCells: res.Stats.CellsCoerced,
	}
	if res.Validation != nil {
		summary.ValidationErrors = len(res.Validation.Errors)
		summary.ValidationWarnings = len(res.Validation.Warnings)
	}
	if logPath, err := utils.WriteSummaryLog(summary, cfg.LogDir); err != nil {
		fmt.Printf("Warning: could not write summary log: %v\n", err)
	} else {
		fmt.Printf("Summary log: %s\n", logPath)
	}

	if !res.Success {
		return res.Error
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseInputFlags turns the repeated TAG=path flags into the assessment order
// and the per-assessment path map. The order preserves the flag order on the
// command line.
func parseInputFlags(pairs []string) ([]types.AssessmentType, map[types.AssessmentType]string, error) {
	if len(pairs) == 0 {
		return nil, nil, fmt.Errorf("at least one --input TAG=path is required")
	}

	order := make([]types.AssessmentType, 0, len(pairs))
	paths := make(map[types.AssessmentType]string, len(pairs))

	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, nil, fmt.Errorf("invalid --input %q: expected TAG=path", pair)
		}

		tag, ok := types.ParseAssessmentTag(parts[0])
		if !ok {
			return nil, nil, fmt.Errorf(
				"unknown assessment tag %q (valid: IA1, IA2, Model, Lab, Review1, Review2, Review3, Integrated)",
				parts[0],
			)
		}
		if _, dup := paths[tag]; dup {
			return nil, nil, fmt.Errorf("duplicate --input for %s", tag)
		}

		order = append(order, tag)
		paths[tag] = parts[1]
	}

	return order, paths, nil
}

// validationLogEntries flattens a generation result into validation log
// entries: validator findings first, then one advisory per coerced cell.
func validationLogEntries(res generator.Result) []utils.ValidationLogEntry {
	var entries []utils.ValidationLogEntry

	if res.Validation != nil {
		for _, issue := range res.Validation.Errors {
			entries = append(entries, utils.ValidationLogEntry{
				Severity: issue.Severity,
				Source:   issue.Source,
				Field:    issue.Field,
				Message:  issue.Message,
			})
		}
		for _, issue := range res.Validation.Warnings {
			entries = append(entries, utils.ValidationLogEntry{
				Severity: issue.Severity,
				Source:   issue.Source,
				Field:    issue.Field,
				Message:  issue.Message,
			})
		}
	}

	for _, adv := range res.Advisories {
		entries = append(entries, utils.ValidationLogEntry{
			Severity: "advisory",
			Source:   adv.Source,
			Field:    fmt.Sprintf("row %d, column %d", adv.Row, adv.Column),
			Message:  fmt.Sprintf("non-numeric mark %q coerced to 0", adv.Raw),
		})
	}

	return entries
}
