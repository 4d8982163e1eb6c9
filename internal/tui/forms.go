package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/ginjaninja78/attainment-sheet-generator/internal/template"
	"github.com/ginjaninja78/attainment-sheet-generator/internal/types"
	"github.com/ginjaninja78/attainment-sheet-generator/pkg/utils"
)

type GenerateFormResult struct {
	Regulation string
	Category   string
	DeptType   string
	InputPaths map[types.AssessmentType]string
}

// ShowGenerateForm walks the user through picking a combination and the
// evaluation sheet for each required assessment. Later choices depend on
// earlier ones, so the form runs in stages.
func ShowGenerateForm(reg *template.Registry) (*GenerateFormResult, error) {
	result := &GenerateFormResult{
		InputPaths: make(map[types.AssessmentType]string),
	}

	// Stage 1: regulation
	var regOptions []huh.Option[string]
	for _, r := range reg.Regulations() {
		regOptions = append(regOptions, huh.NewOption(string(r), string(r)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Regulation").
				Options(regOptions...).
				Value(&result.Regulation),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	regulation := types.Regulation(result.Regulation)

	// Stage 2: category
	var catOptions []huh.Option[string]
	for _, c := range reg.Categories(regulation) {
		catOptions = append(catOptions, huh.NewOption(string(c), string(c)))
	}

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Course Category").
				Options(catOptions...).
				Value(&result.Category),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	category := types.Category(result.Category)

	// Stage 3: department type, skipped when the category has one variant
	depts := reg.DeptTypes(regulation, category)
	if len(depts) == 1 {
		result.DeptType = string(depts[0])
	} else {
		var deptOptions []huh.Option[string]
		for _, d := range depts {
			deptOptions = append(deptOptions, huh.NewOption(string(d), string(d)))
		}

		form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Department Type").
					Options(deptOptions...).
					Value(&result.DeptType),
			),
		)
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	// Stage 4: one file path per required assessment
	required, err := reg.RequiredInputs(regulation, category)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(required))
	fields := make([]huh.Field, len(required))
	for i, at := range required {
		fields[i] = huh.NewInput().
			Title(fmt.Sprintf("%s evaluation sheet", at)).
			Value(&paths[i]).
			Placeholder("path/to/sheet.xlsx").
			Validate(func(s string) error {
				if s == "" {
					return errors.New("a sheet path is required")
				}
				if !utils.FileExists(s) {
					return fmt.Errorf("file not found: %s", s)
				}
				return nil
			})
	}

	form = huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return nil, err
	}

	for i, at := range required {
		result.InputPaths[at] = paths[i]
	}

	return result, nil
}
