// internal/portal/multipart.go
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	apperrors "admission-portal/internal/common/errors"
	"admission-portal/internal/common/metrics"
	"admission-portal/internal/models"
)

// Submission is one validated, normalized application payload. The engine
// builds it; this package only encodes and ships it. Documents holds only
// freshly selected local files — slots already stored server-side are
// never re-sent.
type Submission struct {
	FormType  models.FormType
	Personal  map[string]string
	Entrance  map[string]interface{}
	Education models.Education
	Documents map[string]string // slot -> local file path
	IsFinal   bool
	AttemptID string // correlation id, sent as X-Attempt-Id
}

// SubmitResponse is the portal's answer to a create or update. The create
// endpoint has been seen returning the id in three different shapes, so
// every candidate is modeled.
type SubmitResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Application *struct {
		ApplicationID string `json:"applicationId"`
	} `json:"application,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
	ID            string `json:"id,omitempty"`
}

// ResolveID returns the first usable application id in the response, or "".
func (r *SubmitResponse) ResolveID() string {
	if r.Application != nil && r.Application.ApplicationID != "" {
		return r.Application.ApplicationID
	}
	if r.ApplicationID != "" {
		return r.ApplicationID
	}
	return r.ID
}

// CreateApplication POSTs a new application as one multipart request.
func (c *Client) CreateApplication(ctx context.Context, sub *Submission) (*SubmitResponse, error) {
	return c.sendMultipart(ctx, "CreateApplication", http.MethodPost, "/application/submit", sub)
}

// UpdateApplication PUTs an existing application. The payload shape is
// identical to creation; only verb and endpoint differ.
func (c *Client) UpdateApplication(ctx context.Context, applicationID string, sub *Submission) (*SubmitResponse, error) {
	path := fmt.Sprintf("/application/update/%s", applicationID)
	return c.sendMultipart(ctx, "UpdateApplication", http.MethodPut, path, sub)
}

func (c *Client) sendMultipart(ctx context.Context, operation, method, path string, sub *Submission) (*SubmitResponse, error) {
	if err := validateSubmissionPayload(sub); err != nil {
		return nil, err
	}

	body, contentType, err := encodeMultipart(sub, c.maxDocumentKB)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + path
	started := time.Now()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, apperrors.NewTransportFailureError(operation, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if sub.AttemptID != "" {
		req.Header.Set("X-Attempt-Id", sub.AttemptID)
	}

	resp, err := c.uploadClient.DoWithContext(ctx, req)
	if err != nil {
		metrics.PortalRequests.WithLabelValues(operation, "network_error").Inc()
		return nil, apperrors.NewTransportFailureError(operation, err)
	}
	defer resp.Body.Close()

	metrics.PortalRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.PortalRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperrors.NewAuthRequiredError(fmt.Sprintf("%s returned 401", operation))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransportFailureError(operation, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.NewTransportFailureError(operation,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(raw)))
	}

	var out SubmitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewTransportFailureError(operation, fmt.Errorf("decode: %w", err))
	}
	if !out.Success {
		return nil, apperrors.NewServerMessageError(operation, out.Message)
	}
	return &out, nil
}

func encodeMultipart(sub *Submission, maxDocumentKB int) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("formType", string(sub.FormType)); err != nil {
		return nil, "", fmt.Errorf("write formType: %w", err)
	}
	if err := writeJSONField(w, "personal", sub.Personal); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "entrance", sub.Entrance); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "education", sub.Education); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("isFinalSubmitted", strconv.FormatBool(sub.IsFinal)); err != nil {
		return nil, "", fmt.Errorf("write isFinalSubmitted: %w", err)
	}

	for slot, path := range sub.Documents {
		if err := writeFilePart(w, slot, path, maxDocumentKB); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func writeJSONField(w *multipart.Writer, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return w.WriteField(name, string(data))
}

func writeFilePart(w *multipart.Writer, slot, path string, maxDocumentKB int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document %s: %w", slot, err)
	}
	defer f.Close()

	if maxDocumentKB > 0 {
		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat document %s: %w", slot, err)
		}
		if info.Size() > int64(maxDocumentKB)*1024 {
			return fmt.Errorf("document %s exceeds %d KB", slot, maxDocumentKB)
		}
	}

	part, err := w.CreateFormFile(slot, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create part %s: %w", slot, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy document %s: %w", slot, err)
	}
	return nil
}
