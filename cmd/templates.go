// =============================================================================
// Attainment Sheet Generator - Templates Command
// =============================================================================
//
// This file defines the 'templates' command, which lists every known
// (regulation, category, department type) combination together with the
// template file it resolves to and whether that file is present in the
// configured template directory.
//
// COMMAND USAGE:
//   attaingen templates
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/template"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/tui"
)

// =============================================================================
// TEMPLATES COMMAND DEFINITION
// =============================================================================

// templatesCmd represents the 'templates' command.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the known template combinations and their files",
	Long: `The templates command lists every (regulation, category, department type)
combination the generator knows, the template file each one resolves to, and
whether that file exists under the configured template directory. Missing
files mean the combination will fail at generation time.`,

	// RunE is like Run but returns an error. This is preferred for commands
	// that can fail, as it allows Cobra to handle the error gracefully.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemplates()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the templates command with the root command.
func init() {
	rootCmd.AddCommand(templatesCmd)
}

// =============================================================================
// MAIN LISTING FUNCTION
// =============================================================================

// runTemplates renders the template inventory.
func runTemplates() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := template.NewRegistry(cfg.TemplateDir)
	fmt.Println(tui.RenderTemplates(registry, cfg.TemplateDir))
	return nil
}
