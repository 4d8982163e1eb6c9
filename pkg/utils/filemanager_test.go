package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestSanitizeCourseName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"plain name", "Data Structures", 50, "Data Structures"},
		{"ampersand dropped", "Data Structures & Algorithms", 50, "Data Structures  Algorithms"},
		{"symbols dropped", "C++ Programming!", 50, "C Programming"},
		{"hyphen and underscore kept", "Micro-processors_Lab", 50, "Micro-processors_Lab"},
		{"truncated", "Object Oriented Analysis and Design", 10, "Object Ori"},
		{"no limit", strings.Repeat("A", 60), 0, strings.Repeat("A", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeCourseName(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeCourseName(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestGenerateOutputFileName(t *testing.T) {
	dir := t.TempDir()
	path := GenerateOutputFileName(dir, "C211", "Data Structures & Algorithms", "R17", 50)

	if filepath.Dir(path) != dir {
		t.Errorf("dir = %q, want %q", filepath.Dir(path), dir)
	}

	pattern := regexp.MustCompile(`^C211_Data Structures  Algorithms_R17_Attainment_\d{8}_\d{6}\.xlsx$`)
	if base := filepath.Base(path); !pattern.MatchString(base) {
		t.Errorf("file name %q does not match the naming scheme", base)
	}
}

func TestGenerateOutputFileNameCollision(t *testing.T) {
	dir := t.TempDir()

	first := GenerateOutputFileName(dir, "C211", "DS", "R17", 50)
	if err := os.WriteFile(first, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", first, err)
	}

	second := GenerateOutputFileName(dir, "C211", "DS", "R17", 50)
	if second == first {
		t.Fatal("collision produced the same path twice")
	}
	pattern := regexp.MustCompile(`^C211_DS_R17_Attainment_\d{8}_\d{6}(_[0-9a-f]{8})?\.xlsx$`)
	if base := filepath.Base(second); !pattern.MatchString(base) {
		t.Errorf("file name %q does not match the naming scheme", base)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	fm := NewFileManager(
		filepath.Join(base, "templates"),
		filepath.Join(base, "outputs"),
		filepath.Join(base, "work"),
		filepath.Join(base, "logs"),
	)

	if err := fm.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() failed: %v", err)
	}

	for _, dir := range []string{fm.OutputDir, fm.WorkDir, fm.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s was not created: %v", dir, err)
		}
	}

	// The template directory is a deployed asset, never created on the fly.
	if _, err := os.Stat(fm.TemplateDir); !os.IsNotExist(err) {
		t.Error("template directory should not be created")
	}
}

func TestSessionDir(t *testing.T) {
	work := t.TempDir()
	fm := NewFileManager("", "", work, "")

	dir, err := fm.SessionDir()
	if err != nil {
		t.Fatalf("SessionDir() failed: %v", err)
	}
	if filepath.Dir(dir) != work {
		t.Errorf("session dir %q is not under the work directory", dir)
	}
	if len(filepath.Base(dir)) != 8 {
		t.Errorf("session id %q is not 8 characters", filepath.Base(dir))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("session dir was not created: %v", err)
	}

	other, err := fm.SessionDir()
	if err != nil {
		t.Fatalf("second SessionDir() failed: %v", err)
	}
	if other == dir {
		t.Error("two sessions resolved to the same directory")
	}
}

func TestStageInputs(t *testing.T) {
	base := t.TempDir()
	fm := NewFileManager("", "", filepath.Join(base, "work"), "")

	src := filepath.Join(base, "ia1.xlsx")
	if err := os.WriteFile(src, []byte("workbook bytes"), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	sessionDir, staged, err := fm.StageInputs([]string{src})
	if err != nil {
		t.Fatalf("StageInputs() failed: %v", err)
	}
	if len(staged) != 1 {
		t.Fatalf("got %d staged files, want 1", len(staged))
	}
	if filepath.Dir(staged[0]) != sessionDir {
		t.Errorf("staged file %q is not inside the session dir %q", staged[0], sessionDir)
	}

	data, err := os.ReadFile(staged[0])
	if err != nil {
		t.Fatalf("failed to read staged copy: %v", err)
	}
	if string(data) != "workbook bytes" {
		t.Errorf("staged content = %q, want the original bytes", data)
	}

	// The original must be untouched.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("original file disturbed: %v", err)
	}
}

func TestStageInputsMissingSource(t *testing.T) {
	fm := NewFileManager("", "", t.TempDir(), "")
	_, _, err := fm.StageInputs([]string{filepath.Join(t.TempDir(), "missing.xlsx")})
	if err == nil || !strings.Contains(err.Error(), "failed to stage") {
		t.Errorf("error = %v, want a staging failure", err)
	}
}

func TestCleanupOldFiles(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "session", "stale.xlsx")
	if err := os.MkdirAll(filepath.Dir(oldFile), 0755); err != nil {
		t.Fatalf("failed to create session dir: %v", err)
	}
	if err := os.WriteFile(oldFile, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write old file: %v", err)
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatalf("failed to age the file: %v", err)
	}

	newFile := filepath.Join(dir, "fresh.xlsx")
	if err := os.WriteFile(newFile, []byte("y"), 0644); err != nil {
		t.Fatalf("failed to write new file: %v", err)
	}

	removed, err := CleanupOldFiles(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldFiles() failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if FileExists(oldFile) {
		t.Error("stale file survived the cleanup")
	}
	if !FileExists(newFile) {
		t.Error("fresh file was removed")
	}
}

func TestCleanupOldFilesMissingDir(t *testing.T) {
	removed, err := CleanupOldFiles(filepath.Join(t.TempDir(), "nope"), time.Hour)
	if err != nil || removed != 0 {
		t.Errorf("CleanupOldFiles() = %d, %v; want 0, nil for a missing directory", removed, err)
	}
}

func TestWriteValidationLog(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	entries := []ValidationLogEntry{
		{Severity: "error", Source: "ia2.xlsx", Field: "course_code", Message: "Mismatch in 'course_code'"},
		{Severity: "advisory", Message: "non-numeric mark \"AB\" coerced to 0"},
	}

	path, err := WriteValidationLog(entries, logDir)
	if err != nil {
		t.Fatalf("WriteValidationLog() failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "validation_log_") {
		t.Errorf("log name = %q, want the validation_log_ prefix", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"Total Findings: 2", "Finding #1", "Severity: error", "Source:   ia2.xlsx", "Finding #2", "coerced to 0"} {
		if !strings.Contains(content, want) {
			t.Errorf("log does not contain %q", want)
		}
	}
}

func TestWriteValidationLogEmpty(t *testing.T) {
	path, err := WriteValidationLog(nil, t.TempDir())
	if err != nil {
		t.Fatalf("WriteValidationLog() failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty when there is nothing to log", path)
	}
}

func TestWriteSummaryLog(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	start := time.Now().Add(-2 * time.Second)
	summary := GenerationSummary{
		StartTime:          start,
		EndTime:            time.Now(),
		Regulation:         "R17",
		Category:           "theory",
		DeptType:           "dept",
		InputFiles:         []string{"ia1.xlsx", "ia2.xlsx", "model.xlsx"},
		OutputFile:         "outputs/C211_DS_R17_Attainment_20240101_120000.xlsx",
		StudentCount:       5,
		ValidationWarnings: 2,
	}

	path, err := WriteSummaryLog(summary, logDir)
	if err != nil {
		t.Fatalf("WriteSummaryLog() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"Regulation:  R17",
		"Category:    theory",
		"Students:            5",
		"Validation Warnings: 2",
		"ia2.xlsx",
		"C211_DS_R17_Attainment",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("summary does not contain %q", want)
		}
	}
}
