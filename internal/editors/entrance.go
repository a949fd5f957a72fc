// internal/editors/entrance.go
package editors

import (
	"fmt"
	"strconv"
	"strings"

	"admission-portal/internal/engine"
	"admission-portal/internal/models"
)

// EntranceEditor edits the entrance-exam section. Score and percentile
// bounds are computed here, inside the editor, and travel up with every
// patch; the engine merges them with precedence over the rule table.
type EntranceEditor struct {
	formType    models.FormType
	values      models.Entrance
	lastEmitted models.Entrance
}

func NewEntranceEditor(formType models.FormType, seed models.Entrance) *EntranceEditor {
	values := models.Entrance(copyStringMap(seed))
	return &EntranceEditor{
		formType:    formType,
		values:      values,
		lastEmitted: models.Entrance(copyStringMap(values)),
	}
}

// SetExamField records one field of one exam (applicationId, score,
// scorePercent). Unknown exams are ignored.
func (e *EntranceEditor) SetExamField(exam, field, value string) {
	known := false
	for _, candidate := range models.Exams {
		if candidate == exam {
			known = true
			break
		}
	}
	if !known {
		return
	}
	e.values[exam+upperFirst(field)] = value
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SetPercentile records the overall percentile used by METICS.
func (e *EntranceEditor) SetPercentile(value string) {
	e.values["percentile"] = value
}

// Emit returns the update to push to the engine, or ok=false when nothing
// effectively changed since the last emission.
func (e *EntranceEditor) Emit() (engine.SectionUpdate, bool) {
	if equalStringMaps(e.values, e.lastEmitted) {
		return engine.SectionUpdate{}, false
	}
	e.lastEmitted = models.Entrance(copyStringMap(e.values))

	return engine.SectionUpdate{
		Patch:  engine.SectionPatch{Entrance: models.Entrance(copyStringMap(e.values))},
		Errors: e.localErrors(),
	}, true
}

func (e *EntranceEditor) localErrors() []models.ValidationError {
	var errs []models.ValidationError
	for key, raw := range e.values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		switch {
		case strings.HasSuffix(key, "ScorePercent") || key == "percentile":
			errs = appendBoundError(errs, key, v, 100)
		case strings.HasSuffix(key, "Score"):
			errs = appendBoundError(errs, key, v, 200)
		}
	}
	return errs
}

func appendBoundError(errs []models.ValidationError, key, raw string, max float64) []models.ValidationError {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return append(errs, models.ValidationError{
			Field:   key,
			Code:    models.CodeInvalidFormat,
			Message: fmt.Sprintf("%s must be a number", key),
		})
	}
	if n < 0 || n > max {
		return append(errs, models.ValidationError{
			Field:   key,
			Code:    models.CodeOutOfRange,
			Message: fmt.Sprintf("%s must be between 0 and %g", key, max),
		})
	}
	return errs
}
