// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCodeUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("load: %w", NewAuthRequiredError("token rejected"))

	assert.True(t, IsCode(err, ErrCodeAuthRequired))
	assert.False(t, IsCode(err, ErrCodeValidationFailed))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeAuthRequired))
}

func TestFatalFlagsPerCode(t *testing.T) {
	assert.True(t, IsFatal(NewAuthRequiredError("")))
	assert.True(t, IsFatal(NewNoInstituteAssignedError("a@b.c")))
	assert.False(t, IsFatal(NewValidationFailedError(nil)))
	assert.False(t, IsFatal(NewTransportFailureError("GetUser", errors.New("timeout"))))
	assert.False(t, IsFatal(NewOrphanedSubmissionError("no id")))
}

func TestRetryableFlagsPerCode(t *testing.T) {
	assert.True(t, NewTransportFailureError("GetUser", errors.New("timeout")).Retryable)
	assert.False(t, NewValidationFailedError(nil).Retryable)
	assert.False(t, NewOrphanedSubmissionError("no id").Retryable)
	assert.False(t, NewImmutableRecordError("A1").Retryable)
}

func TestAsStandardWrapsUnknownErrors(t *testing.T) {
	std := AsStandard(errors.New("broken pipe"))
	require.NotNil(t, std)
	assert.Equal(t, ErrCodeTransportFailure, std.Code)
	assert.Contains(t, std.Details, "broken pipe")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "session", GetErrorCategory(ErrCodeAuthRequired))
	assert.Equal(t, "session", GetErrorCategory(ErrCodeNoInstituteAssigned))
	assert.Equal(t, "local", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "local", GetErrorCategory(ErrCodeImmutableRecord))
	assert.Equal(t, "remote", GetErrorCategory(ErrCodeTransportFailure))
	assert.Equal(t, "remote", GetErrorCategory(ErrCodeOrphanedSubmission))
}

type recordingLogger struct {
	errorCalls int
	warnCalls  int
	lastFields map[string]interface{}
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.errorCalls++
	l.lastFields = fields
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warnCalls++
	l.lastFields = fields
}

func TestNoticeHandlerAggregatesValidationMessages(t *testing.T) {
	log := &recordingLogger{}
	h := NewNoticeHandler(log)

	notice := h.Handle(NewValidationFailedError([]string{
		"Date of birth is required",
		"CET application ID is required",
	}))

	assert.Equal(t, ErrCodeValidationFailed, notice.Code)
	require.Len(t, notice.Messages, 2)
	text := notice.Text()
	assert.Contains(t, text, "Date of birth is required")
	assert.Contains(t, text, "CET application ID is required")
	assert.Equal(t, 1, log.warnCalls)
}

func TestNoticeHandlerLogsFatalAsError(t *testing.T) {
	log := &recordingLogger{}
	h := NewNoticeHandler(log)

	notice := h.Handle(NewAuthRequiredError("token rejected"))

	assert.True(t, notice.Fatal)
	assert.Equal(t, 1, log.errorCalls)
	assert.Equal(t, 0, log.warnCalls)
	assert.Equal(t, "session", log.lastFields["errorCategory"])
}

func TestNoticeTextWithoutMessagesIsPlain(t *testing.T) {
	notice := Notice{Message: "A submission is already in progress"}
	assert.Equal(t, "A submission is already in progress", notice.Text())
}
