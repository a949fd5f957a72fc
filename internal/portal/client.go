// internal/portal/client.go

// Package portal is the HTTP client for the remote admission portal API.
// The portal owns all business authority; this client only moves records
// back and forth and maps failures onto the engine's error taxonomy.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "admission-portal/internal/common/errors"
	commonhttp "admission-portal/internal/common/http"
	"admission-portal/internal/common/metrics"
	"admission-portal/internal/models"
)

type Client struct {
	baseURL       string
	token         string
	httpClient    *commonhttp.Client
	uploadClient  *commonhttp.Client
	maxDocumentKB int
}

// NewClient creates a portal client. Multipart submissions use the longer
// upload timeout; everything else uses the plain one.
func NewClient(baseURL, token string, timeout, uploadTimeout time.Duration, maxDocumentKB int) *Client {
	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		token:         token,
		httpClient:    commonhttp.NewClient(timeout),
		uploadClient:  commonhttp.NewClient(uploadTimeout),
		maxDocumentKB: maxDocumentKB,
	}
}

// ApplicationSummary is one row of the user's application list.
type ApplicationSummary struct {
	ApplicationID  string          `json:"applicationId"`
	FormType       models.FormType `json:"formType"`
	Status         models.Status   `json:"status"`
	SubmissionDate string          `json:"submissionDate,omitempty"`
}

type userResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	User    *models.Profile `json:"user"`
}

type listResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	Applications []ApplicationSummary `json:"applications"`
}

type detailsResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Application *applicationDetails `json:"application"`
}

// applicationDetails tolerates the portal's loose numeric encoding: score
// fields may arrive as numbers or strings depending on how they were saved.
type applicationDetails struct {
	FormType       models.FormType                   `json:"formType"`
	ApplicationID  string                            `json:"applicationId"`
	ApplicationNo  string                            `json:"applicationNo,omitempty"`
	Personal       map[string]interface{}            `json:"personal"`
	Entrance       map[string]interface{}            `json:"entrance"`
	Education      map[string]map[string]interface{} `json:"education"`
	Documents      map[string]string                 `json:"documents"`
	Status         models.Status                     `json:"status"`
	SubmissionDate string                            `json:"submissionDate,omitempty"`
}

// GetUser fetches the authenticated profile. A 401 means the token is
// gone or rejected and the session must end.
func (c *Client) GetUser(ctx context.Context) (*models.Profile, error) {
	var out userResponse
	if err := c.getJSON(ctx, "GetUser", "/auth/user", &out); err != nil {
		return nil, err
	}
	if !out.Success || out.User == nil {
		return nil, apperrors.NewAuthRequiredError(out.Message)
	}
	return out.User, nil
}

// ListApplications fetches every application belonging to the user.
func (c *Client) ListApplications(ctx context.Context) ([]ApplicationSummary, error) {
	var out listResponse
	if err := c.getJSON(ctx, "ListApplications", "/application", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, apperrors.NewServerMessageError("ListApplications", out.Message)
	}
	return out.Applications, nil
}

// GetApplicationDetails fetches the full record for one application.
func (c *Client) GetApplicationDetails(ctx context.Context, applicationID string) (*models.ApplicationRecord, error) {
	path := fmt.Sprintf("/application/details/%s", applicationID)
	var out detailsResponse
	if err := c.getJSON(ctx, "GetApplicationDetails", path, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Application == nil {
		return nil, apperrors.NewServerMessageError("GetApplicationDetails", out.Message)
	}
	return out.Application.toRecord(), nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, out interface{}) error {
	url := c.baseURL + path

	started := time.Now()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return apperrors.NewTransportFailureError(operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		metrics.PortalRequests.WithLabelValues(operation, "network_error").Inc()
		return apperrors.NewTransportFailureError(operation, err)
	}
	defer resp.Body.Close()

	metrics.PortalRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.PortalRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())

	if resp.StatusCode == http.StatusUnauthorized {
		return apperrors.NewAuthRequiredError(fmt.Sprintf("%s returned 401", operation))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.NewTransportFailureError(operation,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewTransportFailureError(operation, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func (d *applicationDetails) toRecord() *models.ApplicationRecord {
	rec := models.NewApplicationRecord(d.FormType)
	rec.ApplicationID = d.ApplicationID
	rec.ApplicationNo = d.ApplicationNo
	rec.SubmissionDate = d.SubmissionDate
	if d.Status != "" {
		rec.Status = d.Status
	}

	for k, v := range d.Personal {
		rec.Personal[k] = stringify(v)
	}
	for k, v := range d.Entrance {
		rec.Entrance[k] = stringify(v)
	}
	for level, fields := range d.Education {
		lvl, ok := rec.Education[level]
		if !ok {
			lvl = models.EducationLevel{}
			rec.Education[level] = lvl
		}
		for k, v := range fields {
			lvl[k] = stringify(v)
		}
	}
	for slot, path := range d.Documents {
		if path != "" {
			rec.Documents[slot] = models.DocumentValue{StoredPath: path}
		}
	}
	return rec
}

// stringify flattens wire values into the engine's string field model.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
