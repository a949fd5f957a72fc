// internal/engine/submit.go
package engine

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "admission-portal/internal/common/errors"
	"admission-portal/internal/common/metrics"
	"admission-portal/internal/models"
	"admission-portal/internal/portal"
)

// SubmitResult reports a successful draft save or final submission.
type SubmitResult struct {
	ApplicationID string
	Status        models.Status
	Final         bool
}

// Submit validates the record and ships it wholesale as one multipart
// request: POST when the record has no id yet, PUT otherwise. A final
// submission additionally requires the terms acknowledgment and, on
// success, locks the record and navigates to the confirmation view. On
// any failure local state is untouched so the user may retry unchanged.
func (e *Engine) Submit(ctx context.Context, isFinal, termsAccepted bool) (*SubmitResult, error) {
	if !e.loaded {
		return nil, apperrors.NewTransportFailureError("Submit", errNotLoaded)
	}
	if e.record.IsFinalSubmitted() {
		// Terminal state: refuse without any network call.
		return nil, apperrors.NewImmutableRecordError(e.record.ApplicationID)
	}
	if e.submitting {
		return nil, apperrors.NewSubmissionInFlightError()
	}
	e.submitting = true
	defer func() { e.submitting = false }()

	if errs := e.ValidationErrors(isFinal); !errs.Empty() {
		metrics.ValidationFailures.WithLabelValues(string(e.formType)).Inc()
		return nil, apperrors.NewValidationFailedError(errs.Messages())
	}

	// The terms acknowledgment is a separate gate from field validation,
	// checked before any payload is built.
	if isFinal && !termsAccepted {
		return nil, apperrors.NewTermsNotAcceptedError()
	}

	attemptID := uuid.NewString()
	log := e.logger.WithFields(map[string]interface{}{
		"attemptId": attemptID,
		"formType":  string(e.formType),
		"isFinal":   isFinal,
	})

	ctx, span := e.tracing.StartSpan(ctx, "form.submit",
		attribute.String("form.type", string(e.formType)),
		attribute.Bool("form.final", isFinal),
		attribute.String("form.attempt_id", attemptID),
	)
	defer span.End()

	sub := e.buildSubmission(isFinal, attemptID)
	started := time.Now()

	var resp *portal.SubmitResponse
	var err error
	creating := e.record.IsNew()
	if creating {
		resp, err = e.api.CreateApplication(ctx, sub)
	} else {
		resp, err = e.api.UpdateApplication(ctx, e.record.ApplicationID, sub)
	}

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.SubmissionsTotal.WithLabelValues(string(e.formType), strconv.FormatBool(isFinal), result).Inc()
	if e.obs != nil {
		e.obs.RecordSubmission(ctx, string(e.formType), result)
		e.obs.RecordSubmissionDuration(ctx, time.Since(started), result)
	}

	if err != nil {
		log.WithError(err).Warn("submission failed", nil)
		return nil, err
	}

	applicationID := resp.ResolveID()
	if applicationID == "" && !creating {
		applicationID = e.record.ApplicationID
	}
	if applicationID == "" {
		// The creation response omitted the new id. Reconcile against the
		// list endpoint before giving up.
		applicationID, err = e.recoverCreatedID(ctx)
		if err != nil {
			log.WithError(err).Error("created application could not be resolved", nil)
			return nil, err
		}
	}

	e.record.ApplicationID = applicationID
	if isFinal {
		e.record.Status = models.StatusFinalSubmitted
	} else {
		e.record.Status = models.StatusDraft
	}
	e.markDocumentsUploaded()

	log.Info("submission accepted", map[string]interface{}{
		"applicationId": applicationID,
		"status":        string(e.record.Status),
	})

	if isFinal {
		e.navigator.NavigateToConfirmation(applicationID)
	}

	return &SubmitResult{
		ApplicationID: applicationID,
		Status:        e.record.Status,
		Final:         isFinal,
	}, nil
}

// buildSubmission normalizes the record into the wire payload. Read-only
// personal fields come from the profile, never from editable state, and
// percentile-like fields become 2-decimal numbers.
func (e *Engine) buildSubmission(isFinal bool, attemptID string) *portal.Submission {
	personal := make(map[string]string, len(e.record.Personal))
	for k, v := range e.record.Personal {
		personal[k] = v
	}
	personal["studentName"] = e.profile.StudentName()
	personal["mobileNo"] = e.profile.PhoneNo
	personal["email"] = e.profile.Email

	entrance := make(map[string]interface{}, len(e.record.Entrance))
	for k, raw := range e.record.Entrance {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		switch {
		case strings.HasSuffix(k, "ScorePercent") || k == "percentile":
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				entrance[k] = round2(n)
			}
		case strings.HasSuffix(k, "Score"):
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				entrance[k] = n
			}
		default:
			entrance[k] = v
		}
	}

	education := make(models.Education, len(e.record.Education))
	for level, fields := range e.record.Education {
		lvl := make(models.EducationLevel, len(fields))
		for k, v := range fields {
			lvl[k] = v
		}
		education[level] = lvl
	}

	// Only freshly selected files travel; stored paths stay server-side.
	documents := make(map[string]string)
	for slot, doc := range e.record.Documents {
		if doc.IsPending() {
			documents[slot] = doc.LocalPath
		}
	}

	return &portal.Submission{
		FormType:  e.formType,
		Personal:  personal,
		Entrance:  entrance,
		Education: education,
		Documents: documents,
		IsFinal:   isFinal,
		AttemptID: attemptID,
	}
}

// recoverCreatedID re-lists the user's applications and adopts the most
// recent one for this program. When even that finds nothing, the
// submission is orphaned: the server may hold a record we cannot address,
// so local state must not advance.
func (e *Engine) recoverCreatedID(ctx context.Context) (string, error) {
	summaries, err := e.api.ListApplications(ctx)
	if err != nil {
		return "", apperrors.NewOrphanedSubmissionError("re-list failed: " + err.Error())
	}

	id := ""
	for _, summary := range summaries {
		if summary.FormType == e.formType {
			id = summary.ApplicationID
		}
	}
	if id == "" {
		return "", apperrors.NewOrphanedSubmissionError("creation response had no id and re-list found no application")
	}
	return id, nil
}

// markDocumentsUploaded flips pending files to stored after a successful
// submission; the server path is opaque, the local name is kept only as a
// display hint.
func (e *Engine) markDocumentsUploaded() {
	for slot, doc := range e.record.Documents {
		if doc.IsPending() {
			e.record.Documents[slot] = models.DocumentValue{StoredPath: doc.LocalPath}
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
