// internal/common/errors/notice.go
package errors

import "strings"

// Notice is the single user-facing message every failure is reduced to.
// Nothing in the engine surfaces raw errors to the user.
type Notice struct {
	Code     ErrorCode
	Message  string
	Fatal    bool
	Messages []string // individual field messages for validation failures
}

// Text renders the notice as one aggregated block.
func (n Notice) Text() string {
	if len(n.Messages) == 0 {
		return n.Message
	}
	return n.Message + ":\n- " + strings.Join(n.Messages, "\n- ")
}

// Notifier is the user-facing alert/confirm surface. Implementations show
// one notice at a time and answer yes/no prompts.
type Notifier interface {
	Alert(n Notice)
	Confirm(prompt string) bool
}

// NoticeHandler converts errors into notices and logs them once.
type NoticeHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewNoticeHandler(logger Logger) *NoticeHandler {
	return &NoticeHandler{logger: logger}
}

// Handle normalizes err, logs it and returns the notice to display.
func (h *NoticeHandler) Handle(err error) Notice {
	stdErr := AsStandard(err)

	notice := Notice{
		Code:    stdErr.Code,
		Message: stdErr.Message,
		Fatal:   stdErr.Fatal,
	}
	if msgs, ok := stdErr.Metadata["messages"].([]string); ok {
		notice.Messages = msgs
	}

	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"fatal":         stdErr.Fatal,
	}
	if stdErr.Fatal {
		h.logger.Error("session ended", fields)
	} else {
		h.logger.Warn("request failed", fields)
	}

	return notice
}
