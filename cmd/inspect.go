// =============================================================================
// Attainment Sheet Generator - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which reads a single evaluation
// workbook and shows everything the extractor sees in it: header metadata,
// discovered outcome columns, declared maxima, and the student count. It is
// the quickest way to find out why a sheet validates badly.
//
// COMMAND USAGE:
//   attaingen inspect <sheet.xlsx>
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/extract"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/tui"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/xlsxreader"
)

// =============================================================================
// INSPECT COMMAND DEFINITION
// =============================================================================

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <sheet.xlsx>",
	Short: "Show what the extractor reads from one evaluation workbook",
	Long: `The inspect command opens a single evaluation workbook and prints the
extracted view of it: the eight header fields, the outcome columns found on
the header row with their declared maximum marks, the total column, the
number of student rows, and any mark cells that could not be read as numbers.

It also shows the assessment type detected from the sheet title and the
normalized regulation code, which is what the cross-sheet validation will
compare against.`,

	// Args enforces exactly one sheet path on the command line.
	Args: cobra.ExactArgs(1),

	// RunE is like Run but returns an error. This is preferred for commands
	// that can fail, as it allows Cobra to handle the error gracefully.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the inspect command with the root command.
func init() {
	rootCmd.AddCommand(inspectCmd)
}

// =============================================================================
// MAIN INSPECTION FUNCTION
// =============================================================================

// runInspect extracts one workbook and renders the result.
func runInspect(path string) error {
	fmt.Println(tui.RenderTitle("Sheet Inspection"))

	w, err := xlsxreader.Open(xlsxreader.FromPath(path), xlsxreader.ModeValues)
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}
	defer w.Close()

	sheet := extract.Assessment(w)
	detected := extract.DetectAssessmentType(sheet.Metadata.AssessmentName)
	normalized := extract.NormalizeRegulation(sheet.Metadata.Regulation)

	fmt.Println(tui.RenderInspection(sheet, detected, normalized))
	return nil
}
