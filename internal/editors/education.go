// internal/editors/education.go
package editors

import (
	"strconv"

	"admission-portal/internal/engine"
	"admission-portal/internal/models"
)

// EducationEditor edits the education-history section across the levels
// that exist for the program.
type EducationEditor struct {
	formType    models.FormType
	values      models.Education
	lastEmitted models.Education
}

func NewEducationEditor(formType models.FormType, seed models.Education) *EducationEditor {
	values := copyEducation(seed)
	for _, level := range formType.EducationLevels() {
		if _, ok := values[level]; !ok {
			values[level] = models.EducationLevel{}
		}
	}
	return &EducationEditor{
		formType:    formType,
		values:      values,
		lastEmitted: copyEducation(values),
	}
}

// SetField records one field of one education level. Levels that do not
// exist for the program are ignored.
func (e *EducationEditor) SetField(level, key, value string) {
	fields, ok := e.values[level]
	if !ok {
		return
	}
	fields[key] = value
}

// Emit returns the update to push to the engine, or ok=false when nothing
// effectively changed since the last emission.
func (e *EducationEditor) Emit() (engine.SectionUpdate, bool) {
	if equalEducation(e.values, e.lastEmitted) {
		return engine.SectionUpdate{}, false
	}
	e.lastEmitted = copyEducation(e.values)

	return engine.SectionUpdate{
		Patch:  engine.SectionPatch{Education: copyEducation(e.values)},
		Errors: e.localErrors(),
	}, true
}

func (e *EducationEditor) localErrors() []models.ValidationError {
	var errs []models.ValidationError
	for level, fields := range e.values {
		if v := fields["percent"]; v != "" {
			if n, err := strconv.ParseFloat(v, 64); err != nil || n < 0 || n > 100 {
				errs = append(errs, models.ValidationError{
					Field:   level + ".percent",
					Code:    models.CodeOutOfRange,
					Message: "Percentage must be between 0 and 100",
				})
			}
		}
		if v := fields["year"]; v != "" {
			if _, err := strconv.Atoi(v); err != nil {
				errs = append(errs, models.ValidationError{
					Field:   level + ".year",
					Code:    models.CodeInvalidFormat,
					Message: "Passing year must be a number",
				})
			}
		}
	}
	return errs
}
