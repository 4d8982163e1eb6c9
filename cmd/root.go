// =============================================================================
// Attainment Sheet Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'generate', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (attaingen)
//   ├── generateCmd  (attaingen generate)
//   ├── validateCmd  (attaingen validate)
//   ├── inspectCmd   (attaingen inspect)
//   ├── templatesCmd (attaingen templates)
//   └── versionCmd   (attaingen version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the application configuration for subcommands
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// defaultConfigFile is the configuration file looked up when --config is
// not given. A missing default file is not an error; built-in defaults
// apply instead.
const defaultConfigFile = "config.yaml"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	// Use is the one-line usage message.
	Use: "attaingen",

	// Short is a short description shown in the 'help' output.
	Short: "CO-PO Attainment Sheet Generator - Consolidate evaluation sheets into attainment templates",

	// Long is a longer description shown in the 'help <command>' output.
	Long: `Attainment Sheet Generator is a CLI tool that reads course evaluation
workbooks (internal assessments, model exams, lab sessions, project reviews),
cross-validates them, and fills the institution's CO-PO attainment template
with the consolidated per-student marks.

Key Features:
  - Fixed-layout extraction of metadata, outcome columns, and student marks
  - Cross-sheet validation of course identity, regulation, and rosters
  - First-assessment-wins merge keyed by registration number
  - Template filling that preserves every formula and style
  - Per-student audit reports and validation logs

Example Usage:
  attaingen generate -r R17 -c theory -i IA1=ia1.xlsx -i IA2=ia2.xlsx -i Model=model.xlsx
  attaingen generate --interactive       # Pick the combination and sheets interactively
  attaingen validate ia1.xlsx ia2.xlsx   # Cross-check sheets without generating
  attaingen templates                    # List the known template combinations`,

	// Run is the function that will be executed when the root command is called
	// without any subcommands. In this case, we just print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Execute the root command. If there's an error, print it and exit.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// loadConfig loads the main configuration for a subcommand. An explicitly
// given --config file must exist; the default file may be absent, in which
// case the built-in defaults are used.
func loadConfig() (*config.MainConfig, error) {
	if cfgFile == defaultConfigFile {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return config.DefaultMainConfig(), nil
		}
	}
	return config.LoadMainConfig(cfgFile)
}

// =============================================================================
// CLI LOGGER
// =============================================================================

// cliLogger writes generator log lines to the terminal; debug lines only
// appear with --verbose.
type cliLogger struct{}

func (l *cliLogger) Debug(msg string, args ...interface{}) {
	if verbose {
		fmt.Printf("[DEBUG] "+msg+"\n", args...)
	}
}

func (l *cliLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *cliLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *cliLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	// Default is "config.yaml" in the current directory.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the main configuration file",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
