// internal/portal/client_test.go
package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "admission-portal/internal/common/errors"
	"admission-portal/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", 5*time.Second, 5*time.Second, 0)
}

func TestGetUserSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true, "user": {"firstName": "Asha", "lastName": "Patel", "email": "asha@example.com", "phoneNo": "9876543210", "institutes": [{"code": "METIPD"}]}}`))
	}))

	profile, err := client.GetUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/auth/user", gotPath)
	assert.Equal(t, "Asha Patel", profile.StudentName())
	require.Len(t, profile.Institutes, 1)
	assert.Equal(t, "METIPD", profile.Institutes[0].Code)
}

func TestGetUserMaps401ToAuthRequired(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.GetUser(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAuthRequired))
	assert.True(t, apperrors.IsFatal(err))
}

func TestGetUserUnsuccessfulEnvelopeEndsSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "token expired"}`))
	}))

	_, err := client.GetUser(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAuthRequired))
}

func TestListApplications(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"success": true, "applications": [
			{"applicationId": "A1", "formType": "METIPD", "status": "draft"},
			{"applicationId": "A2", "formType": "METICS", "status": "final-submitted", "submissionDate": "2026-08-01"}
		]}`))
	}))

	apps, err := client.ListApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, models.FormTypeMETIPD, apps[0].FormType)
	assert.Equal(t, models.StatusFinalSubmitted, apps[1].Status)
}

func TestGetApplicationDetailsHydratesLooseNumbers(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/details/A1", r.URL.Path)
		w.Write([]byte(`{"success": true, "application": {
			"formType": "METIPD",
			"applicationId": "A1",
			"status": "draft",
			"personal": {"dob": "2001-04-12", "gender": "female"},
			"entrance": {"cetApplicationId": "CET-1001", "cetScorePercent": 88.5, "cetScore": 142},
			"education": {"hsc": {"board": "State Board", "percent": 80}},
			"documents": {"signaturePhoto": "uploads/sig.png", "hscMarksheet": ""}
		}}`))
	}))

	rec, err := client.GetApplicationDetails(context.Background(), "A1")
	require.NoError(t, err)

	assert.Equal(t, "A1", rec.ApplicationID)
	assert.Equal(t, models.StatusDraft, rec.Status)
	assert.Equal(t, "88.5", rec.Entrance["cetScorePercent"], "numbers land as strings in the field model")
	assert.Equal(t, "142", rec.Entrance["cetScore"])
	assert.Equal(t, "80", rec.Education["hsc"]["percent"])
	assert.True(t, rec.Documents["signaturePhoto"].IsStored())
	_, present := rec.Documents["hscMarksheet"]
	assert.False(t, present, "empty stored path means no document")
}

func validSubmission(docs map[string]string) *Submission {
	return &Submission{
		FormType: models.FormTypeMETIPD,
		Personal: map[string]string{"dob": "2001-04-12", "studentName": "Asha Patel"},
		Entrance: map[string]interface{}{"cetApplicationId": "CET-1001", "cetScorePercent": 88.5},
		Education: models.Education{
			models.LevelHSC: {"board": "State Board", "percent": "80"},
		},
		Documents: docs,
		AttemptID: "attempt-1",
	}
}

func TestCreateApplicationEncodesMultipart(t *testing.T) {
	dir := t.TempDir()
	sigPath := filepath.Join(dir, "sig.png")
	require.NoError(t, os.WriteFile(sigPath, []byte("png-bytes"), 0o644))

	var gotMethod, gotPath string
	var gotForm *http.Request
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = r
		w.Write([]byte(`{"success": true, "applicationId": "A1"}`))
	}))

	sub := validSubmission(map[string]string{"signaturePhoto": sigPath})
	sub.IsFinal = true

	resp, err := client.CreateApplication(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "A1", resp.ResolveID())

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/application/submit", gotPath)
	assert.Equal(t, "Bearer test-token", gotForm.Header.Get("Authorization"))
	assert.Equal(t, "attempt-1", gotForm.Header.Get("X-Attempt-Id"))

	assert.Equal(t, "METIPD", gotForm.FormValue("formType"))
	assert.Equal(t, "true", gotForm.FormValue("isFinalSubmitted"))
	assert.JSONEq(t, `{"dob": "2001-04-12", "studentName": "Asha Patel"}`, gotForm.FormValue("personal"))
	assert.JSONEq(t, `{"cetApplicationId": "CET-1001", "cetScorePercent": 88.5}`, gotForm.FormValue("entrance"))
	assert.JSONEq(t, `{"hsc": {"board": "State Board", "percent": "80"}}`, gotForm.FormValue("education"))

	file, header, err := gotForm.FormFile("signaturePhoto")
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "sig.png", header.Filename)
}

func TestUpdateApplicationUsesPutWithID(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"success": true}`))
	}))

	_, err := client.UpdateApplication(context.Background(), "A1", validSubmission(nil))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/application/update/A1", gotPath)
}

func TestSubmitResponseResolveIDCandidates(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "nested application object", body: `{"success": true, "application": {"applicationId": "N1"}}`, want: "N1"},
		{name: "top-level applicationId", body: `{"success": true, "applicationId": "T1"}`, want: "T1"},
		{name: "bare id", body: `{"success": true, "id": "B1"}`, want: "B1"},
		{name: "no id at all", body: `{"success": true}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))

			resp, err := client.CreateApplication(context.Background(), validSubmission(nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.ResolveID())
		})
	}
}

func TestRequestsHonorContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "applications": []}`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListApplications(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTransportFailure))

	_, err = client.CreateApplication(ctx, validSubmission(nil))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTransportFailure))
}

func TestCreateApplicationMapsServerRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "window closed"}`))
	}))

	_, err := client.CreateApplication(context.Background(), validSubmission(nil))
	require.Error(t, err)

	std := apperrors.AsStandard(err)
	require.NotNil(t, std)
	assert.Contains(t, std.Message, "window closed")
}

func TestCreateApplicationMaps401(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.CreateApplication(context.Background(), validSubmission(nil))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAuthRequired))
}

func TestCreateApplicationRejectsOversizedDocument(t *testing.T) {
	dir := t.TempDir()
	bigPath := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(bigPath, make([]byte, 4096), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("oversized payload must never reach the server")
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "test-token", time.Second, time.Second, 2)

	_, err := client.CreateApplication(context.Background(), validSubmission(map[string]string{"fcReceipt": bigPath}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestPayloadSchemaRejectsOutOfContractEntrance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("schema-invalid payload must never reach the server")
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "test-token", time.Second, time.Second, 0)

	sub := validSubmission(nil)
	sub.Entrance["cetScorePercent"] = 250.0

	_, err := client.CreateApplication(context.Background(), sub)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodePayloadSchemaFailed))
}
