// =============================================================================
// Attainment Sheet Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION FILE:
//   One YAML file (config.yaml by default) with directory locations and
//   housekeeping settings. Every field has a default, so the application
//   runs without a configuration file at all; deployments override only
//   what differs.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// TemplateDir is the directory containing the attainment templates,
	// organized into Reg_17/Reg_21/Reg_24 subdirectories.
	// Default: "./templates"
	TemplateDir string `yaml:"template_dir"`

	// OutputDir is the directory where generated attainment sheets are
	// placed.
	// Default: "./outputs"
	OutputDir string `yaml:"output_dir"`

	// WorkDir is the scratch directory for per-session files (staged
	// uploads, audit reports without an explicit path). Old sessions are
	// cleaned up on startup.
	// Default: "./work"
	WorkDir string `yaml:"work_dir"`

	// LogDir is the directory where validation logs are written.
	// Default: "./logs"
	LogDir string `yaml:"log_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// CourseNameMaxLen caps the sanitized course-name portion of generated
	// file names. Long titles are truncated, not rejected.
	// Default: 50
	CourseNameMaxLen int `yaml:"course_name_max_len"`

	// ShowWarnings is how many validation warnings the CLI prints in full
	// before collapsing the rest into a count.
	// Default: 5
	ShowWarnings int `yaml:"show_warnings"`

	// =========================================================================
	// HOUSEKEEPING SETTINGS
	// =========================================================================

	// CleanupMaxAgeHours is the age after which files in the work directory
	// are deleted on startup. Set to 0 to use the default.
	// Default: 24
	CleanupMaxAgeHours int `yaml:"cleanup_max_age_hours"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultMainConfig returns a configuration with every field at its default.
// Used when no configuration file is present.
func DefaultMainConfig() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.TemplateDir == "" {
		config.TemplateDir = "./templates"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./outputs"
	}
	if config.WorkDir == "" {
		config.WorkDir = "./work"
	}
	if config.LogDir == "" {
		config.LogDir = "./logs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.CourseNameMaxLen == 0 {
		config.CourseNameMaxLen = 50
	}
	if config.ShowWarnings == 0 {
		config.ShowWarnings = 5
	}
	if config.CleanupMaxAgeHours == 0 {
		config.CleanupMaxAgeHours = 24
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if config.CourseNameMaxLen < 0 {
		return fmt.Errorf("course_name_max_len must not be negative")
	}
	if config.ShowWarnings < 0 {
		return fmt.Errorf("show_warnings must not be negative")
	}
	if config.CleanupMaxAgeHours < 0 {
		return fmt.Errorf("cleanup_max_age_hours must not be negative")
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}

	// Create working directories that do not exist yet. The template
	// directory is deployed separately and is not auto-created.
	dirs := []string{
		config.OutputDir,
		config.WorkDir,
		config.LogDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
