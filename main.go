// =============================================================================
// Attainment Sheet Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Attainment Sheet Generator CLI
// application. It initializes the Cobra CLI framework and delegates command
// execution to the cmd package.
//
// USAGE:
//   attaingen generate      - Generate an attainment sheet from evaluation workbooks
//   attaingen validate      - Cross-check evaluation workbooks without generating
//   attaingen inspect       - Show what the extractor reads from one workbook
//   attaingen templates     - List the known template combinations
//   attaingen version       - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - templates/     : Contains the attainment XLSX templates per regulation
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/attainment-sheet-generator/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
