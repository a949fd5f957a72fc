// internal/engine/loader.go
package engine

import (
	"context"

	apperrors "admission-portal/internal/common/errors"
	"admission-portal/internal/models"
)

// Load runs the strictly ordered start sequence: profile fetch, program
// resolution, application list, details fetch. Every failure here is fatal
// to the session — there is no partial or offline mode.
func (e *Engine) Load(ctx context.Context) error {
	ctx, span := e.tracing.StartSpan(ctx, "form.load")
	defer span.End()

	profile, err := e.api.GetUser(ctx)
	if err != nil {
		return err
	}

	if len(profile.Institutes) == 0 {
		return apperrors.NewNoInstituteAssignedError(profile.Email)
	}

	formType, err := models.ParseFormType(profile.Institutes[0].Code)
	if err != nil {
		return apperrors.NewNoInstituteAssignedError(err.Error())
	}

	e.profile = profile
	e.formType = formType

	summaries, err := e.api.ListApplications(ctx)
	if err != nil {
		return err
	}

	// At most one application exists per program.
	var existingID string
	for _, summary := range summaries {
		if summary.FormType == formType {
			existingID = summary.ApplicationID
			break
		}
	}

	if existingID == "" {
		e.record = models.NewApplicationRecord(formType)
		mirrorProfile(e.record, profile)
		e.loaded = true
		e.logger.Info("started new application", map[string]interface{}{
			"formType": string(formType),
		})
		return nil
	}

	record, err := e.api.GetApplicationDetails(ctx, existingID)
	if err != nil {
		return err
	}
	mirrorProfile(record, profile)

	e.record = record
	e.loaded = true
	e.logger.Info("loaded existing application", map[string]interface{}{
		"formType":      string(formType),
		"applicationId": existingID,
		"status":        string(record.Status),
	})
	return nil
}
