// =============================================================================
// Attainment Sheet Generator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the generator, including:
//   - Output file naming and collision handling
//   - Per-session staging directories for input sheets
//   - Validation log generation
//   - Generation summary logs
//   - Work directory cleanup
//
// RETENTION STRATEGY:
//   - Staged inputs live in per-session subdirectories of the work directory
//   - Work files older than the configured age are removed on startup
//   - Generated attainment sheets are never cleaned up automatically
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the generator.
type FileManager struct {
	// TemplateDir is the directory containing the attainment templates.
	TemplateDir string

	// OutputDir is the directory where generated sheets are placed.
	OutputDir string

	// WorkDir is the scratch directory holding per-session files.
	WorkDir string

	// LogDir is the directory where log files are written.
	LogDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(templateDir, outputDir, workDir, logDir string) *FileManager {
	return &FileManager{
		TemplateDir: templateDir,
		OutputDir:   outputDir,
		WorkDir:     workDir,
		LogDir:      logDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the writable directories if they don't exist.
// The template directory is a deployed asset and is not created here.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.OutputDir,
		fm.WorkDir,
		fm.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// SESSION MANAGEMENT
// =============================================================================

// SessionDir creates a fresh uniquely-named subdirectory of the work
// directory and returns its path. Each generation that stages files gets
// its own session directory.
func (fm *FileManager) SessionDir() (string, error) {
	id := uuid.New().String()[:8]
	dir := filepath.Join(fm.WorkDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	return dir, nil
}

// StageInputs copies the given files into a new session directory and
// returns the session path together with the staged file paths, in input
// order. The originals are never touched.
func (fm *FileManager) StageInputs(paths []string) (string, []string, error) {
	sessionDir, err := fm.SessionDir()
	if err != nil {
		return "", nil, err
	}

	staged := make([]string, len(paths))
	for i, path := range paths {
		dst := filepath.Join(sessionDir, filepath.Base(path))
		if err := copyFile(path, dst); err != nil {
			return "", nil, fmt.Errorf("failed to stage %s: %w", path, err)
		}
		staged[i] = dst
	}

	return sessionDir, staged, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// SanitizeCourseName strips a course name down to characters safe in a file
// name. Letters, digits, spaces, hyphens, and underscores survive; anything
// else is dropped. The result is truncated to maxLen runes when maxLen is
// positive.
func SanitizeCourseName(name string, maxLen int) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	safe := b.String()
	if maxLen > 0 {
		runes := []rune(safe)
		if len(runes) > maxLen {
			safe = string(runes[:maxLen])
		}
	}
	return safe
}

// GenerateOutputFileName builds the output path for a generated attainment
// sheet.
//
// FILE NAMING:
//   {course_code}_{safe_course_name}_{regulation}_Attainment_{timestamp}.xlsx
//
// The timestamp has second granularity, so a second generation within the
// same second for the same course would collide; when the candidate path
// already exists a short uniqueness suffix is appended.
func GenerateOutputFileName(outputDir, courseCode, courseName, regulation string, maxNameLen int) string {
	safeName := SanitizeCourseName(courseName, maxNameLen)
	timestamp := time.Now().Format("20060102_150405")

	fileName := fmt.Sprintf("%s_%s_%s_Attainment_%s.xlsx", courseCode, safeName, regulation, timestamp)
	path := filepath.Join(outputDir, fileName)

	if FileExists(path) {
		suffix := uuid.New().String()[:8]
		fileName = fmt.Sprintf("%s_%s_%s_Attainment_%s_%s.xlsx", courseCode, safeName, regulation, timestamp, suffix)
		path = filepath.Join(outputDir, fileName)
	}

	return path
}

// =============================================================================
// VALIDATION LOG GENERATION
// =============================================================================

// ValidationLogEntry represents a single validation log entry.
type ValidationLogEntry struct {
	Severity string
	Source   string
	Field    string
	Message  string
}

// WriteValidationLog writes validation entries to a timestamped log file.
//
// PARAMETERS:
//   - entries: The validation entries to write.
//   - logDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the log file, empty when there was nothing to write.
//   - An error if writing fails.
func WriteValidationLog(entries []ValidationLogEntry, logDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	logFileName := fmt.Sprintf("validation_log_%s.txt", timestamp)
	logPath := filepath.Join(logDir, logFileName)

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create validation log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	header := fmt.Sprintf("Attainment Sheet Generator - Validation Log\n"+
		"Generated: %s\n"+
		"Total Findings: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))
	writer.WriteString(header)

	for i, entry := range entries {
		entryStr := fmt.Sprintf("Finding #%d\n"+
			"  Severity: %s\n"+
			"  Message:  %s\n",
			i+1,
			entry.Severity,
			entry.Message)

		if entry.Source != "" {
			entryStr += fmt.Sprintf("  Source:   %s\n", entry.Source)
		}
		if entry.Field != "" {
			entryStr += fmt.Sprintf("  Field:    %s\n", entry.Field)
		}

		entryStr += "\n"
		writer.WriteString(entryStr)
	}

	footer := "================================================================================\n" +
		"End of Validation Log\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush validation log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// GENERATION SUMMARY
// =============================================================================

// GenerationSummary contains summary information about one generation run.
type GenerationSummary struct {
	StartTime          time.Time
	EndTime            time.Time
	Regulation         string
	Category           string
	DeptType           string
	InputFiles         []string
	OutputFile         string
	StudentCount       int
	ValidationErrors   int
	ValidationWarnings int
	CoercedCells       int
}

// WriteSummaryLog writes a generation summary to a timestamped log file.
//
// PARAMETERS:
//   - summary: The generation summary.
//   - logDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary GenerationSummary, logDir string) (string, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	summaryFileName := fmt.Sprintf("generation_summary_%s.txt", timestamp)
	summaryPath := filepath.Join(logDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("Attainment Sheet Generator - Generation Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:  %s\n"+
		"  End Time:    %s\n"+
		"  Duration:    %s\n\n"+
		"Course Combination:\n"+
		"  Regulation:  %s\n"+
		"  Category:    %s\n"+
		"  Dept Type:   %s\n\n"+
		"Statistics:\n"+
		"  Students:            %d\n"+
		"  Validation Errors:   %d\n"+
		"  Validation Warnings: %d\n"+
		"  Coerced Cells:       %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.Regulation,
		summary.Category,
		summary.DeptType,
		summary.StudentCount,
		summary.ValidationErrors,
		summary.ValidationWarnings,
		summary.CoercedCells)
	writer.WriteString(header)

	if len(summary.InputFiles) > 0 {
		writer.WriteString("Input Sheets:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.InputFiles {
			writer.WriteString(fmt.Sprintf("  %s\n", f))
		}
		writer.WriteString("\n")
	}

	if summary.OutputFile != "" {
		writer.WriteString(fmt.Sprintf("Output:\n  %s\n\n", summary.OutputFile))
	}

	footer := "================================================================================\n" +
		"End of Summary\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileModTime returns the modification time of a file.
func GetFileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// CleanupOldFiles removes files under the directory older than the
// specified duration. Directories themselves are kept; a missing directory
// removes nothing.
//
// PARAMETERS:
//   - dir: The directory to clean.
//   - maxAge: The maximum age of files to keep.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanupOldFiles(dir string, maxAge time.Duration) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean %s: %w", dir, err)
	}

	return removed, nil
}
