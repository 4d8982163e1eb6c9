package extract

import (
	"testing"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
)

func TestNormalizeRegulation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"canonical code", "R17", "R17"},
		{"full year with prefix", "R2017 - AUC", "R17"},
		{"bare year", "2021", "R21"},
		{"verbose form", "Regulation 2017", "R17"},
		{"lowercase", "r2024", "R24"},
		{"no recognizable year", "old syllabus", "OLD SYLLABUS"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRegulation(tt.in); got != tt.want {
				t.Errorf("NormalizeRegulation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectAssessmentType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want types.AssessmentType
	}{
		{"internal assessment 1", "Internal Assessment 1", types.IA1},
		{"ia2 shorthand", "IA2", types.IA2},
		{"internal without number", "Internal Assessment", types.Unknown},
		{"model exam", "MODEL EXAMINATION", types.Model},
		{"lab exam", "Lab Exam", types.Lab},
		{"project review 1", "Project Review 1", types.Review1},
		{"review with dash", "Review - 2", types.Review2},
		{"third review", "REVIEW 3", types.Review3},
		{"review without number", "Project Review", types.Unknown},
		{"integrated", "Integrated Assessment", types.Integrated},
		{"unrelated title", "Attendance Register", types.Unknown},
		{"empty", "", types.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectAssessmentType(tt.in); got != tt.want {
				t.Errorf("DetectAssessmentType(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
