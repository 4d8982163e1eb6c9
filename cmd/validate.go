// =============================================================================
// Attainment Sheet Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which cross-checks a set of
// evaluation workbooks without generating anything. It runs the same
// validation pass the generate command runs, so a clean validate run means
// the sheets are ready for generation.
//
// COMMAND USAGE:
//   attaingen validate <sheet.xlsx> [more sheets...] [flags]
//
// FLAGS:
//   --regulation : Also check that every sheet declares this regulation
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/tui"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/validation"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
	"github.com/ginjaninja78/attainment-sheet-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// expectedRegulation, when set, requires every sheet to declare this
// regulation code.
var expectedRegulation string

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <sheet.xlsx> [more sheets...]",
	Short: "Cross-check evaluation workbooks without generating a sheet",
	Long: `The validate command reads the given evaluation workbooks and runs the
full cross-sheet validation pass: existence and readability, course identity,
declared regulation, roster overlap, and mark ranges against the declared
maxima.

Errors mean the set would be rejected by 'generate'; warnings point at
oddities worth a manual look but do not block generation. Non-numeric mark
cells are listed separately as advisories.

The findings are also written to a validation log in the configured log
directory.`,

	// Args enforces at least one sheet path on the command line.
	Args: cobra.MinimumNArgs(1),

	// RunE is like Run but returns an error. This is preferred for commands
	// that can fail, as it allows Cobra to handle the error gracefully.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(args)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the validate command with the root command and sets up flags.
func init() {
	// Add the validate command to the root command.
	rootCmd.AddCommand(validateCmd)

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	// --regulation flag: Expected regulation code for every sheet.
	validateCmd.Flags().StringVarP(
		&expectedRegulation,
		"regulation",
		"r",
		"",
		"Require every sheet to declare this regulation (R17, R21, R24)",
	)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// runValidate validates the given workbooks and reports the findings.
func runValidate(args []string) error {
	fmt.Println(tui.RenderTitle("Sheet Validation"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// =========================================================================
	// STEP 1: RUN THE VALIDATION PASS
	// =========================================================================

	sources := make([]xlsxreader.Source, 0, len(args))
	for _, arg := range args {
		sources = append(sources, xlsxreader.FromPath(arg))
	}

	expected := string(types.ParseRegulation(expectedRegulation))
	res, sheets := validation.ValidateAll(sources, expected)

	// =========================================================================
	// STEP 2: RENDER THE FINDINGS
	// =========================================================================

	fmt.Println(tui.RenderValidationResult(res, cfg.ShowWarnings))

	var advisories []types.CellAdvisory
	for _, sheet := range sheets {
		if sheet != nil {
			advisories = append(advisories, sheet.Advisories...)
		}
	}
	if len(advisories) > 0 {
		fmt.Println(tui.RenderAdvisories(advisories, cfg.ShowWarnings))
	}

	// =========================================================================
	// STEP 3: WRITE THE VALIDATION LOG
	// =========================================================================

	entries := make([]utils.ValidationLogEntry, 0, len(res.Errors)+len(res.Warnings)+len(advisories))
	for _, issue := range append(res.Errors, res.Warnings...) {
		entries = append(entries, utils.ValidationLogEntry{
			Severity: issue.Severity,
			Source:   issue.Source,
			Field:    issue.Field,
			Message:  issue.Message,
		})
	}
	for _, adv := range advisories {
		entries = append(entries, utils.ValidationLogEntry{
			Severity: "advisory",
			Source:   adv.Source,
			Field:    fmt.Sprintf("row %d, column %d", adv.Row, adv.Column),
			Message:  fmt.Sprintf("non-numeric mark %q coerced to 0", adv.Raw),
		})
	}
	if logPath, err := utils.WriteValidationLog(entries, cfg.LogDir); err != nil {
		fmt.Printf("Warning: could not write validation log: %v\n", err)
	} else if logPath != "" {
		fmt.Printf("Validation log: %s\n", logPath)
	}

	if !res.IsValid {
		return fmt.Errorf("validation failed with %d error(s)", len(res.Errors))
	}
	return nil
}
