// =============================================================================
// Attainment Sheet Generator - Generation Pipeline
// =============================================================================
//
// This module contains the core generation logic. It orchestrates the entire
// pipeline for a single attainment sheet, from input parsing to the saved
// output workbook.
//
// GENERATION PIPELINE:
//   1. Resolve the template and required inputs for the combination
//   2. Check the supplied evaluation sheets against the required set
//   3. Parse and cross-validate the evaluation sheets
//   4. Merge per-assessment records into one consolidated roster
//   5. Fill the template with roster and marks
//   6. Save the output workbook
//   7. Write the audit report when requested
//
// CONCURRENCY:
//   One generation runs to completion on one goroutine. Generations for
//   different courses are independent; output paths carry a timestamp and a
//   collision suffix so simultaneous runs never clobber each other.
//
// =============================================================================

package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/config"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/extract"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/report"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/template"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/validation"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
	"github.com/ginjaninja78/attainment-sheet-generator/pkg/utils"
)

// =============================================================================
// REQUEST STRUCTURE
// =============================================================================

// Request describes one attainment sheet generation.
type Request struct {
	// Regulation, Category, and DeptType select the template and column
	// mapping.
	Regulation types.Regulation
	Category   types.Category
	DeptType   types.DeptType

	// Inputs binds each assessment tag to its evaluation sheet. Tags beyond
	// the combination's required set are ignored with a warning.
	Inputs map[types.AssessmentType]xlsxreader.Source

	// OutputDir overrides the configured output directory when non-empty.
	OutputDir string

	// AuditPath, when non-empty, is where the per-student audit report is
	// written after a successful generation.
	AuditPath string

	// Force proceeds with generation despite validation errors. Sheets that
	// cannot be read at all still abort.
	Force bool
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one generation.
type Result struct {
	// OutputFile is the path to the generated attainment sheet.
	// This is empty if generation failed.
	OutputFile string

	// Success indicates whether the generation was successful.
	Success bool

	// Error contains the error if generation failed.
	// This is nil if generation was successful.
	Error error

	// Validation holds the cross-sheet validation outcome, when validation
	// ran. Callers use it to display errors and warnings.
	Validation *validation.Result

	// Advisories lists every mark cell coerced to 0 during extraction.
	Advisories []types.CellAdvisory

	// Stats contains generation statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the generation.
type ProcessingStats struct {
	// SheetsParsed is the number of evaluation sheets parsed.
	SheetsParsed int

	// StudentsMerged is the number of students in the consolidated roster.
	StudentsMerged int

	// CellsCoerced is the number of unreadable mark cells treated as 0.
	CellsCoerced int

	// ProcessingTime is the time taken for the generation.
	ProcessingTime time.Duration
}

// =============================================================================
// GENERATOR STRUCTURE
// =============================================================================

// Generator produces attainment sheets from evaluation workbooks.
type Generator struct {
	// cfg is the main application configuration.
	cfg *config.MainConfig

	// registry resolves templates and required inputs.
	registry *template.Registry

	// logger is used for logging.
	logger Logger
}

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Generator instance.
func New(cfg *config.MainConfig) *Generator {
	return &Generator{
		cfg:      cfg,
		registry: template.NewRegistry(cfg.TemplateDir),
		logger:   &defaultLogger{},
	}
}

// SetLogger replaces the generator's logger. A nil logger is ignored.
func (g *Generator) SetLogger(l Logger) {
	if l != nil {
		g.logger = l
	}
}

// Registry exposes the template registry backing this generator.
func (g *Generator) Registry() *template.Registry {
	return g.registry
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the generation pipeline for one request.
//
// RETURNS:
//   - A Result struct containing the outcome of the generation.
//
// PROCESSING STEPS:
//  1. Resolve template and required inputs
//  2. Check supplied input sheets
//  3. Parse and cross-validate
//  4. Merge student records
//  5. Fill the template
//  6. Save the output workbook
//  7. Write the audit report (optional)
func (g *Generator) Run(req Request) Result {
	startTime := time.Now()
	result := Result{
		Success: false,
	}

	// =========================================================================
	// STEP 1: RESOLVE TEMPLATE AND REQUIRED INPUTS
	// =========================================================================
	// The registry decides which template file and which evaluation sheets
	// the (regulation, category, dept-type) combination needs.

	g.logger.Info("Generating %s %s attainment sheet (%s)", req.Regulation, req.Category, req.DeptType)

	templatePath, err := g.registry.TemplatePath(req.Regulation, req.Category, req.DeptType)
	if err != nil {
		result.Error = fmt.Errorf("failed to resolve template: %w", err)
		return result
	}

	order, err := g.registry.RequiredInputs(req.Regulation, req.Category)
	if err != nil {
		result.Error = fmt.Errorf("failed to resolve required inputs: %w", err)
		return result
	}

	g.logger.Debug("Using template: %s", templatePath)

	// =========================================================================
	// STEP 2: CHECK SUPPLIED INPUT SHEETS
	// =========================================================================
	// Every required assessment must have a sheet. Extra sheets are ignored
	// so a caller can hand over a whole directory of uploads.

	var missing []string
	sources := make([]xlsxreader.Source, 0, len(order))
	for _, at := range order {
		src, ok := req.Inputs[at]
		if !ok {
			missing = append(missing, string(at))
			continue
		}
		sources = append(sources, src)
	}
	if len(missing) > 0 {
		result.Error = fmt.Errorf("missing required input sheets: %s", strings.Join(missing, ", "))
		return result
	}

	for at := range req.Inputs {
		if !containsAssessment(order, at) {
			g.logger.Warn("Ignoring input %s: not used by %s %s", at, req.Regulation, req.Category)
		}
	}

	// =========================================================================
	// STEP 3: PARSE AND CROSS-VALIDATE
	// =========================================================================
	// Each sheet is parsed exactly once. The validator checks existence,
	// metadata consistency, regulation, roster overlap, and mark ranges.

	vres, sheets := validation.ValidateAll(sources, string(req.Regulation))
	result.Validation = vres
	result.Stats.SheetsParsed = len(sheets)

	for _, w := range vres.Warnings {
		g.logger.Warn("Validation warning: %s", w.Message)
	}

	if !vres.IsValid {
		for _, e := range vres.Errors {
			g.logger.Error("Validation error: %s", e.Message)
		}
		if !req.Force || len(sheets) != len(sources) {
			result.Error = fmt.Errorf("validation failed with %d errors", len(vres.Errors))
			return result
		}
		g.logger.Warn("Proceeding despite %d validation errors", len(vres.Errors))
	}

	for i, at := range order {
		detected := extract.DetectAssessmentType(sheets[i].Metadata.AssessmentName)
		if detected != types.Unknown && detected != at {
			g.logger.Warn("Sheet %s supplied as %s but titled %q",
				sheets[i].Metadata.SourceName, at, sheets[i].Metadata.AssessmentName)
		}
	}

	// =========================================================================
	// STEP 4: MERGE STUDENT RECORDS
	// =========================================================================
	// Consolidate the per-assessment records into one roster. The required
	// input order doubles as the merge precedence.

	perAssessment := make(map[types.AssessmentType]map[string]types.StudentMarks, len(order))
	for i, at := range order {
		perAssessment[at] = sheets[i].Students
		result.Advisories = append(result.Advisories, sheets[i].Advisories...)
	}
	result.Stats.CellsCoerced = len(result.Advisories)

	if len(result.Advisories) > 0 {
		g.logger.Warn("%d mark cells were unreadable and treated as 0", len(result.Advisories))
		for _, a := range result.Advisories {
			g.logger.Debug("Coerced cell in %s row %d col %d: %q", a.Source, a.Row, a.Column, a.Raw)
		}
	}

	merged := Merge(order, perAssessment)
	result.Stats.StudentsMerged = len(merged)
	g.logger.Debug("Merged %d students from %d sheets", len(merged), len(sheets))

	// =========================================================================
	// STEP 5: FILL THE TEMPLATE
	// =========================================================================
	// Open the template for writing and project the roster and marks onto
	// its grid. Formulas and formatting outside the data cells stay intact.

	workbook, err := xlsxreader.Open(xlsxreader.FromPath(templatePath), xlsxreader.ModeTemplate)
	if err != nil {
		result.Error = fmt.Errorf("failed to open template: %w", err)
		return result
	}
	defer workbook.Close()

	mapping := template.MappingFor(req.Regulation, req.Category, req.DeptType)
	if err := template.Project(workbook, mapping, merged, perAssessment); err != nil {
		result.Error = fmt.Errorf("failed to fill template: %w", err)
		return result
	}

	g.logger.Debug("Filled template starting at row %d", mapping.DataStartRow)

	// =========================================================================
	// STEP 6: SAVE THE OUTPUT WORKBOOK
	// =========================================================================
	// The output name carries course code, sanitized course name, regulation,
	// and a timestamp. Collisions get a uniqueness suffix.

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = g.cfg.OutputDir
	}

	meta := sheets[0].Metadata
	outputPath := utils.GenerateOutputFileName(
		outputDir, meta.CourseCode, meta.CourseName, string(req.Regulation), g.cfg.CourseNameMaxLen)

	if err := workbook.SaveAs(outputPath); err != nil {
		result.Error = fmt.Errorf("failed to save output: %w", err)
		return result
	}

	result.OutputFile = outputPath
	g.logger.Info("Wrote attainment sheet: %s", outputPath)

	// =========================================================================
	// STEP 7: WRITE AUDIT REPORT
	// =========================================================================
	// The audit CSV records what each assessment contributed per student.
	// Failure to write it does not fail the generation.

	if req.AuditPath != "" {
		entries := make([]report.SheetEntry, len(order))
		for i, at := range order {
			entries[i] = report.SheetEntry{Tag: at, Sheet: sheets[i]}
		}
		if err := report.WriteAudit(req.AuditPath, entries, merged); err != nil {
			g.logger.Warn("Failed to write audit report: %v", err)
		} else {
			g.logger.Info("Wrote audit report: %s", req.AuditPath)
		}
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// containsAssessment reports whether the tag appears in the required set.
func containsAssessment(order []types.AssessmentType, at types.AssessmentType) bool {
	for _, o := range order {
		if o == at {
			return true
		}
	}
	return false
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// defaultLogger is a simple logger that prints to stdout.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("[DEBUG] "+msg+"\n", args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}
