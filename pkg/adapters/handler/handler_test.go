package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/ratelimit"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/session"
	"github.com/wadjakorntonsri/go-job-board/pkg/adapters/spreadsheet"
	"github.com/wadjakorntonsri/go-job-board/pkg/config"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/services"
)

const testPassword = "hunter2"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := sqlite.NewSQLiteRepository("file:h_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{
		AppEnv:        "local",
		BaseURL:       "https://jobs.example.com",
		AdminPassword: testPassword,
		SessionSecret: "test-secret",
		AdminURL:      "/admin",
	}
	sessions := session.NewManager(cfg.SessionSecret, false)
	return NewRouter(cfg, Deps{
		Jobs:       services.NewJobService(repo, ratelimit.NewMemoryLimiter(5, time.Hour)),
		Admin:      services.NewAdminService(repo),
		Import:     services.NewImportService(repo),
		Newsletter: services.NewNewsletterService(repo),
		Sheets:     spreadsheet.NewCodec(),
		Auth:       sessions,
		Sessions:   sessions,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rr := do(t, h, "POST", "/admin/auth", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, rr.Code)
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func jobBody() map[string]interface{} {
	return map[string]interface{}{
		"companyName":  "Acme",
		"title":        "Pricing Analyst",
		"description":  strings.Repeat("We price things. ", 8),
		"category":     "Pricing",
		"seniority":    "Analyst",
		"location":     "Berlin",
		"locationType": "Onsite",
		"region":       "Europe",
		"applyUrl":     "https://acme.example/apply",
		"contactEmail": "hr@acme.example",
		"salaryMin":    60000,
	}
}

func TestLogin(t *testing.T) {
	h := newTestRouter(t)

	rr := do(t, h, "POST", "/admin/auth", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())

	cookie := login(t, h)
	assert.NotEqual(t, testPassword, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	rr = do(t, h, "GET", "/admin/jobs", nil, cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, "DELETE", "/admin/auth", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, session.CookieName, rr.Result().Cookies()[0].Name)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := newTestRouter(t)
	for _, tc := range []struct{ method, path string }{
		{"GET", "/admin/jobs"},
		{"POST", "/admin/jobs"},
		{"PATCH", "/admin/jobs"},
		{"DELETE", "/admin/jobs?id=1"},
		{"GET", "/admin/jobs/template"},
		{"POST", "/admin/jobs/upload"},
	} {
		rr := do(t, h, tc.method, tc.path, nil, &http.Cookie{Name: session.CookieName, Value: testPassword})
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
	}
}

func TestPublicShapeHidesContactEmail(t *testing.T) {
	h := newTestRouter(t)
	cookie := login(t, h)

	rr := do(t, h, "POST", "/admin/jobs", jobBody(), cookie)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		Success bool   `json:"success"`
		Slug    string `json:"slug"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))

	rr = do(t, h, "GET", "/jobs/"+created.Slug, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hr@acme.example")
	assert.Contains(t, rr.Body.String(), `"companyName":"Acme"`)

	rr = do(t, h, "GET", "/jobs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hr@acme.example")

	rr = do(t, h, "GET", "/admin/jobs?status=approved", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "hr@acme.example")
}

func TestSubmitErrors(t *testing.T) {
	h := newTestRouter(t)

	body := jobBody()
	body["region"] = "Mars"
	rr := do(t, h, "POST", "/jobs", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Invalid input", resp.Error)
	assert.Contains(t, resp.FieldErrors, "region")

	req := httptest.NewRequest("POST", "/jobs", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRateLimited(t *testing.T) {
	h := newTestRouter(t)
	for i := 0; i < 5; i++ {
		rr := do(t, h, "POST", "/jobs", jobBody())
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := do(t, h, "POST", "/jobs", jobBody())
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestModerateErrors(t *testing.T) {
	h := newTestRouter(t)
	cookie := login(t, h)

	rr := do(t, h, "POST", "/jobs", jobBody())
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, "GET", "/admin/jobs", nil, cookie)
	var list struct {
		Jobs []struct {
			ID int64 `json:"id"`
		} `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list.Jobs, 1)
	id := list.Jobs[0].ID

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"missing id", map[string]interface{}{"action": "approve"}, http.StatusBadRequest},
		{"unknown action", map[string]interface{}{"jobId": id, "action": "publish"}, http.StatusBadRequest},
		{"unknown job", map[string]interface{}{"jobId": 999, "action": "approve"}, http.StatusNotFound},
		{"pending cannot expire", map[string]interface{}{"jobId": id, "action": "expire"}, http.StatusConflict},
		{"approve", map[string]interface{}{"jobId": id, "action": "approve"}, http.StatusOK},
	}
	for _, tt := range tests {
		rr := do(t, h, "PATCH", "/admin/jobs", tt.body, cookie)
		assert.Equal(t, tt.status, rr.Code, tt.name)
	}

	rr = do(t, h, "GET", "/admin/jobs?status=archived", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, "DELETE", "/admin/jobs?id=abc", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(t, h, "DELETE", "/admin/jobs?id=999", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAnalyticsAndNewsletter(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/analytics/view", map[string]interface{}{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/analytics/click", map[string]interface{}{"jobId": "7"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "POST", "/analytics/click", map[string]interface{}{"jobId": 7}).Code)

	assert.Equal(t, http.StatusOK, do(t, h, "POST", "/newsletter", map[string]string{"email": "Ana@Example.com"}).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, "POST", "/newsletter", map[string]string{"email": "ana@example.com"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/newsletter", map[string]string{"email": "nope"}).Code)
}

func upload(t *testing.T, h http.Handler, cookie *http.Cookie, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/admin/jobs/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestUpload(t *testing.T) {
	h := newTestRouter(t)
	cookie := login(t, h)

	description := strings.Repeat("We price things. ", 8)
	csv := "companyName,title,description,category,seniority,location,locationType,region,applyUrl,contactEmail\n" +
		"Acme,Pricing Analyst," + description + ",Pricing,Analyst,Berlin,Onsite,Europe,https://acme.example/apply,hr@acme.example\n" +
		"Globex,Revenue Lead," + description + ",Sales,Lead,Paris,Hybrid,Europe,https://globex.example/apply,jobs@globex.example\n"

	rr := upload(t, h, cookie, "jobs.csv", []byte(csv))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var report struct {
		Total   int `json:"total"`
		Success int `json:"success"`
		Failed  int `json:"failed"`
		Results []struct {
			Row    int                 `json:"row"`
			Status string              `json:"status"`
			Slug   string              `json:"slug"`
			Errors map[string][]string `json:"errors"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Success)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 3, report.Results[1].Row)
	assert.Contains(t, report.Results[1].Errors, "category")

	rr = do(t, h, "GET", "/jobs/"+report.Results[0].Slug, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = upload(t, h, cookie, "jobs.xls", []byte("legacy"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = upload(t, h, cookie, "jobs.csv", []byte("companyName,title\n"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No data rows")

	rr = upload(t, h, cookie, "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No file uploaded")
}

func TestTemplateDownload(t *testing.T) {
	h := newTestRouter(t)
	rr := do(t, h, "GET", "/admin/jobs/template", nil, login(t, h))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, spreadsheet.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	rows, err := spreadsheet.NewCodec().ReadRows("template.xlsx", rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "Stripe", rows[0].Cells["companyName"])
}

func TestSitemap(t *testing.T) {
	h := newTestRouter(t)
	cookie := login(t, h)
	rr := do(t, h, "POST", "/admin/jobs", jobBody(), cookie)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, "GET", "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<loc>https://jobs.example.com/jobs</loc>")
	assert.Contains(t, body, "<loc>https://jobs.example.com/jobs/acme-pricing-analyst-")
}
