// internal/editors/personal.go
package editors

import (
	"regexp"

	"admission-portal/internal/engine"
	"admission-portal/internal/models"
)

var mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

// readOnlyPersonalFields mirror the session profile; input into them is
// rejected at the editor boundary.
var readOnlyPersonalFields = map[string]bool{
	"studentName": true,
	"mobileNo":    true,
	"email":       true,
}

// PersonalEditor edits the personal-details section.
type PersonalEditor struct {
	values      models.Personal
	lastEmitted models.Personal
}

// NewPersonalEditor seeds the editor from the loaded record.
func NewPersonalEditor(seed models.Personal) *PersonalEditor {
	values := models.Personal(copyStringMap(seed))
	for key := range readOnlyPersonalFields {
		delete(values, key)
	}
	return &PersonalEditor{
		values:      values,
		lastEmitted: models.Personal(copyStringMap(values)),
	}
}

// SetField records a field change. Read-only fields are ignored.
func (e *PersonalEditor) SetField(key, value string) {
	if readOnlyPersonalFields[key] {
		return
	}
	e.values[key] = value
}

// Emit returns the update to push to the engine, or ok=false when the
// effective values match the last emitted snapshot.
func (e *PersonalEditor) Emit() (engine.SectionUpdate, bool) {
	if equalStringMaps(e.values, e.lastEmitted) {
		return engine.SectionUpdate{}, false
	}
	e.lastEmitted = models.Personal(copyStringMap(e.values))

	return engine.SectionUpdate{
		Patch:  engine.SectionPatch{Personal: models.Personal(copyStringMap(e.values))},
		Errors: e.localErrors(),
	}, true
}

// localErrors checks format-level constraints the editor owns itself.
func (e *PersonalEditor) localErrors() []models.ValidationError {
	var errs []models.ValidationError
	for _, key := range []string{"fatherMobileNo", "motherMobileNo"} {
		if v := e.values[key]; v != "" && !mobileRegex.MatchString(v) {
			errs = append(errs, models.ValidationError{
				Field:   key,
				Code:    models.CodeInvalidFormat,
				Message: "Mobile number must be exactly 10 digits",
			})
		}
	}
	return errs
}
