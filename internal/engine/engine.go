// internal/engine/engine.go

// Package engine owns the canonical in-memory application record for one
// form session: it merges patches from the section editors, runs the
// per-program validation rules, and orchestrates draft and final
// submissions against the remote portal. The remote store stays the
// authority on every invariant; the engine's guards are a UX convenience.
package engine

import (
	"context"

	apperrors "admission-portal/internal/common/errors"
	"admission-portal/internal/common/logger"
	"admission-portal/internal/common/observability"
	"admission-portal/internal/models"
	"admission-portal/internal/portal"
)

// PortalAPI is the remote application store as the engine sees it.
// *portal.Client implements it.
type PortalAPI interface {
	GetUser(ctx context.Context) (*models.Profile, error)
	ListApplications(ctx context.Context) ([]portal.ApplicationSummary, error)
	GetApplicationDetails(ctx context.Context, applicationID string) (*models.ApplicationRecord, error)
	CreateApplication(ctx context.Context, sub *portal.Submission) (*portal.SubmitResponse, error)
	UpdateApplication(ctx context.Context, applicationID string, sub *portal.Submission) (*portal.SubmitResponse, error)
}

// Navigator performs the page-transition side effect after a final
// submission is confirmed.
type Navigator interface {
	NavigateToConfirmation(applicationID string)
}

type noopNavigator struct{}

func (noopNavigator) NavigateToConfirmation(string) {}

// Engine is the multi-variant application-form engine. One instance per
// session; all methods run on the caller's goroutine.
type Engine struct {
	api       PortalAPI
	navigator Navigator
	obs       *observability.Observability
	tracing   *observability.Tracing
	logger    logger.Logger

	profile  *models.Profile
	formType models.FormType
	record   *models.ApplicationRecord
	loaded   bool

	// Latest errors self-reported by each section editor. Replaced
	// wholesale on every update from that editor, merged into the
	// validation result with precedence over the rule table.
	sectionErrors map[Section][]models.ValidationError

	submitting bool
}

// New creates an engine. Navigator, obs and tracing may be nil.
func New(api PortalAPI, navigator Navigator, obs *observability.Observability, tracing *observability.Tracing, log logger.Logger) *Engine {
	if navigator == nil {
		navigator = noopNavigator{}
	}
	if tracing == nil {
		tracing = observability.NewTracing("form-engine", "")
	}
	return &Engine{
		api:           api,
		navigator:     navigator,
		obs:           obs,
		tracing:       tracing,
		logger:        log.WithFields(map[string]interface{}{"component": "form-engine"}),
		sectionErrors: make(map[Section][]models.ValidationError),
	}
}

// Loaded reports whether the load sequence completed. No section editor
// should be interactive before then.
func (e *Engine) Loaded() bool {
	return e.loaded
}

// FormType returns the program resolved at load time.
func (e *Engine) FormType() models.FormType {
	return e.formType
}

// Profile returns the session profile resolved at load time.
func (e *Engine) Profile() *models.Profile {
	return e.profile
}

// Record returns a copy of the canonical record for rendering. Editors
// never mutate the engine's copy directly.
func (e *Engine) Record() *models.ApplicationRecord {
	if e.record == nil {
		return nil
	}
	return e.record.Clone()
}

// UpdateFormData folds one section editor's update into the canonical
// record. Safe to call with a redundant patch: the merge is idempotent, so
// re-emission from a snapshot mismatch upstream is harmless. Once the
// record is final-submitted every update is refused.
func (e *Engine) UpdateFormData(section Section, update SectionUpdate) error {
	if !e.loaded {
		return apperrors.NewTransportFailureError("UpdateFormData", errNotLoaded)
	}
	if e.record.IsFinalSubmitted() {
		e.logger.Debug("update ignored on final-submitted record", map[string]interface{}{
			"section": string(section),
		})
		return apperrors.NewImmutableRecordError(e.record.ApplicationID)
	}

	mergePatch(e.record, section, update.Patch)
	mirrorProfile(e.record, e.profile)
	e.sectionErrors[section] = update.Errors

	return nil
}

// ValidationErrors runs the rule table against the current record and
// merges in the editors' self-reported errors. Editor errors win for
// overlapping field paths.
func (e *Engine) ValidationErrors(isFinal bool) models.ErrorSet {
	errs := Validate(e.formType, e.record, e.profile, isFinal)
	for _, editorErrs := range e.sectionErrors {
		errs.MergeOverride(editorErrs)
	}
	return errs
}

var errNotLoaded = notLoadedError{}

type notLoadedError struct{}

func (notLoadedError) Error() string { return "form engine not loaded" }
