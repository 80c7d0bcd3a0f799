package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/store/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Security: config.SecurityConfig{
			EnableCSP:          true,
			CORSAllowedOrigins: []string{"*"},
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T, store core.Store, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	if store == nil {
		store = local.NewMemory()
	}
	srv, err := NewServer(core.NewService(store), cfg)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, target string, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

type listResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    []core.Submission `json:"data"`
}

func list(t *testing.T, srv *Server, method, target, body string) listResponse {
	t.Helper()
	rec := do(t, srv, method, target, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func create(t *testing.T, srv *Server, name, email, platform string) core.Submission {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"message":"hi","platform":%q}`, name, email, platform)
	rec := do(t, srv, http.MethodPost, "/api/contacts", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data core.Submission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestCreateThenList(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/contacts", `{"name":"Ann","email":"a@x.com","message":"hi","platform":"Mobile"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Contact submission saved", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["id"])
	assert.Equal(t, "Mobile", data["platform"])
	assert.NotEmpty(t, data["timestamp"])

	resp := list(t, srv, http.MethodGet, "/api/contacts", "")
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ann", resp.Data[0].Name)
}

func TestCreate_IDsIncrease(t *testing.T) {
	srv := newTestServer(t, nil)
	var last int64
	for i := 0; i < 5; i++ {
		sub := create(t, srv, fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@x.com", i), "")
		assert.Greater(t, sub.ID, last)
		assert.Equal(t, core.PlatformUnknown, sub.Platform)
		last = sub.ID
	}
}

func TestCreate_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"empty body", "", []string{"name", "email", "message"}},
		{"blank fields", `{"name":"  ","email":"","message":"x"}`, []string{"name", "email"}},
		{"bad email", `{"name":"a","email":"nope","message":"x"}`, []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/contacts", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
			fields := body["fields"].(map[string]any)
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/contacts", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "REQ001", decode(t, rec)["code"])
	})

	assert.Zero(t, list(t, srv, http.MethodGet, "/api/contacts", "").Count)
}

func TestGetContact(t *testing.T) {
	srv := newTestServer(t, nil)
	sub := create(t, srv, "Ann", "a@x.com", "Tablet")

	rec := do(t, srv, http.MethodGet, fmt.Sprintf("/api/contacts/%d", sub.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann", decode(t, rec)["data"].(map[string]any)["name"])

	rec = do(t, srv, http.MethodGet, "/api/contacts/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Contact not found", body["error"])
	assert.Equal(t, "SUB001", body["code"])

	for _, bad := range []string{"abc", "0", "-3"} {
		rec = do(t, srv, http.MethodGet, "/api/contacts/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.Equal(t, "VAL003", decode(t, rec)["code"], bad)
	}
}

func TestQueryContacts(t *testing.T) {
	srv := newTestServer(t, nil)
	create(t, srv, "Anna", "anna@x.com", "Mobile")
	create(t, srv, "Juan", "juan@y.com", "Desktop")
	create(t, srv, "Bob", "bob@x.com", "Desktop")

	all := list(t, srv, http.MethodGet, "/api/contacts", "")

	t.Run("empty filter equals list", func(t *testing.T) {
		for _, body := range []string{"", "{}", `{"unknown":"key"}`} {
			got := list(t, srv, http.MethodPost, "/api/contacts/query", body)
			assert.Equal(t, all.Data, got.Data, body)
		}
	})

	t.Run("name substring case-insensitive", func(t *testing.T) {
		got := list(t, srv, http.MethodPost, "/api/contacts/query", `{"name":"AN"}`)
		require.Equal(t, 2, got.Count)
		assert.Equal(t, "Juan", got.Data[0].Name)
		assert.Equal(t, "Anna", got.Data[1].Name)
	})

	t.Run("platform exact", func(t *testing.T) {
		got := list(t, srv, http.MethodPost, "/api/contacts/query", `{"platform":"Desktop"}`)
		assert.Equal(t, 2, got.Count)
		for _, s := range got.Data {
			assert.Equal(t, "Desktop", s.Platform)
		}
		assert.Zero(t, list(t, srv, http.MethodPost, "/api/contacts/query", `{"platform":"Desk"}`).Count)
	})

	t.Run("echoes filters", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/contacts/query", `{"email":"x.com"}`)
		body := decode(t, rec)
		assert.Equal(t, map[string]any{"email": "x.com"}, body["filters"])
		assert.Equal(t, float64(2), body["count"])
	})

	t.Run("date range", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		got := list(t, srv, http.MethodPost, "/api/contacts/query", fmt.Sprintf(`{"startDate":%q,"endDate":%q}`, today, today))
		assert.Equal(t, 3, got.Count)

		got = list(t, srv, http.MethodPost, "/api/contacts/query", `{"endDate":"2000-01-01"}`)
		assert.Zero(t, got.Count)
	})

	t.Run("bad date", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/contacts/query", `{"startDate":"yesterday"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VAL002", decode(t, rec)["code"])
	})
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, nil)
	create(t, srv, "a", "a@x.com", "Desktop")
	create(t, srv, "b", "b@x.com", "Desktop")
	create(t, srv, "c", "c@x.com", "Mobile")

	rec := do(t, srv, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool       `json:"success"`
		Stats   core.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	total := list(t, srv, http.MethodGet, "/api/contacts", "").Count
	assert.Equal(t, int64(total), resp.Stats.TotalRecords)
	assert.LessOrEqual(t, resp.Stats.RecentSubmissions, resp.Stats.TotalRecords)

	var sum int64
	for _, pc := range resp.Stats.PlatformBreakdown {
		sum += pc.Count
	}
	assert.Equal(t, resp.Stats.TotalRecords, sum)
	assert.NotNil(t, resp.Stats.LastUpdated)
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/export/csv", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "EXP001", body["code"])

	create(t, srv, "Ann, Jr.", "a@x.com", "Mobile")

	rec = do(t, srv, http.MethodGet, "/api/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=contacts_export.csv", rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name,email,message,platform,timestamp,created_at", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `1,"Ann, Jr.",a@x.com,hi,Mobile,`))
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestServer(t, nil)
	create(t, src, `Quote "Q" Person`, "q@x.com", "Tablet")
	create(t, src, "Plain", "p@x.com", "Desktop")
	crlf, err := json.Marshal(map[string]string{"name": "Textarea", "email": "t@x.com", "message": "line one\r\nline two"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, do(t, src, http.MethodPost, "/api/contacts", string(crlf)).Code)
	exported := do(t, src, http.MethodGet, "/api/export/csv", "").Body.String()

	dst := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", strings.NewReader(exported))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	dst.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(3), decode(t, rec)["imported"])

	before := list(t, src, http.MethodGet, "/api/contacts", "").Data
	assert.Equal(t, "line one\nline two", before[0].Message)
	after := list(t, dst, http.MethodGet, "/api/contacts", "").Data
	require.Len(t, after, len(before))

	key := func(s core.Submission) string { return s.Name + "|" + s.Email + "|" + s.Message + "|" + s.Platform }
	want := map[string]bool{}
	for _, s := range before {
		want[key(s)] = true
	}
	for _, s := range after {
		assert.True(t, want[key(s)], key(s))
	}
}

func TestImportCSV_Multipart(t *testing.T) {
	srv := newTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "contacts.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("name,email,message\nAnn,a@x.com,hi\n,missing@x.com,hi\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["imported"])
	assert.Equal(t, float64(1), body["skipped"])
	rowErrs := body["errors"].([]any)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, float64(2), rowErrs[0].(map[string]any)["row"])
}

func TestImportCSV_MissingColumn(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", strings.NewReader("name,email\nAnn,a@x.com\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL004", decode(t, rec)["code"])
}

// blockingReader stalls an import until release is closed.
type blockingReader struct{ release chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.release
	return 0, io.EOF
}

func TestImportCSV_BusyReturns503(t *testing.T) {
	svc := core.NewService(local.NewMemory(), core.WithImportLimit(1, 10*time.Millisecond))
	srv, err := NewServer(svc, testConfig())
	require.NoError(t, err)

	br := blockingReader{release: make(chan struct{})}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ImportCSV(context.Background(), br)
	}()
	require.Eventually(t, func() bool { return svc.ImportStatus().Active == 1 }, time.Second, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", strings.NewReader("name,email,message\nAnn,a@x.com,hi\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Equal(t, "IMP001", decode(t, rec)["code"])

	close(br.release)
	<-done
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t, nil)
	sub := create(t, srv, "Ann", "a@x.com", "Mobile")
	create(t, srv, "Bob", "b@x.com", "Mobile")

	for i := 0; i < 2; i++ {
		rec := do(t, srv, http.MethodDelete, fmt.Sprintf("/api/contacts/%d", sub.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Contact deleted successfully", decode(t, rec)["message"])
	}
	assert.Equal(t, 1, list(t, srv, http.MethodGet, "/api/contacts", "").Count)

	rec := do(t, srv, http.MethodDelete, "/api/contacts/9999", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, list(t, srv, http.MethodGet, "/api/contacts", "").Count)

	rec = do(t, srv, http.MethodDelete, "/api/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All contacts cleared", decode(t, rec)["message"])
	assert.Zero(t, list(t, srv, http.MethodGet, "/api/contacts", "").Count)
}

func TestDestructiveRoutesRequireAPIKey(t *testing.T) {
	srv := newTestServer(t, nil, func(c *config.Config) {
		c.Security.RequireAPIKey = true
		c.Security.APIKeys = []string{"s3cret"}
	})
	create(t, srv, "Ann", "a@x.com", "Mobile")

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodDelete, "/api/contacts", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, srv, http.MethodDelete, "/api/contacts", "", "X-API-Key", "wrong").Code)
	assert.Equal(t, 1, list(t, srv, http.MethodGet, "/api/contacts", "").Count)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodDelete, "/api/contacts", "", "X-API-Key", "s3cret").Code)
	assert.Zero(t, list(t, srv, http.MethodGet, "/api/contacts", "").Count)
}

// failingStore fails every call with err.
type failingStore struct{ err error }

func (f failingStore) Create(context.Context, core.NewSubmission) (*core.Submission, error) {
	return nil, f.err
}
func (f failingStore) List(context.Context) ([]core.Submission, error) { return nil, f.err }
func (f failingStore) GetByID(context.Context, int64) (*core.Submission, error) {
	return nil, f.err
}
func (f failingStore) Query(context.Context, core.Filter) ([]core.Submission, error) {
	return nil, f.err
}
func (f failingStore) Stats(context.Context, time.Time) (*core.Stats, error) { return nil, f.err }
func (f failingStore) DeleteByID(context.Context, int64) error             { return f.err }
func (f failingStore) DeleteAll(context.Context) error                      { return f.err }
func (f failingStore) Ping(context.Context) error                           { return f.err }

func TestStoreFailures(t *testing.T) {
	t.Run("timeout is retryable", func(t *testing.T) {
		srv := newTestServer(t, failingStore{err: context.DeadlineExceeded})
		rec := do(t, srv, http.MethodGet, "/api/contacts", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("Retry-After"))
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "context deadline exceeded", body["error"])
		assert.Equal(t, "DB003", body["code"])
	})

	t.Run("other failures pass message through", func(t *testing.T) {
		srv := newTestServer(t, failingStore{err: errors.New(`relation "contact_submissions" does not exist`)})
		rec := do(t, srv, http.MethodGet, "/api/stats", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get("Retry-After"))
		body := decode(t, rec)
		assert.Contains(t, body["error"], "does not exist")
		assert.Equal(t, "DB004", body["code"])
	})

	t.Run("export surfaces store error not no-data", func(t *testing.T) {
		srv := newTestServer(t, failingStore{err: errors.New("dial tcp: connection refused")})
		rec := do(t, srv, http.MethodGet, "/api/export/csv", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "DB001", decode(t, rec)["code"])
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Connected", body["database"])
	assert.NotContains(t, body, "error")

	down := newTestServer(t, failingStore{err: errors.New("connection refused")})
	rec = do(t, down, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "Disconnected", body["database"])
	assert.Equal(t, "connection refused", body["error"])
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRateLimitEnabled(t *testing.T) {
	srv := newTestServer(t, nil, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.RequestsPerMinute = 1
	})
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/health", "").Code)
	rec := do(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE001", decode(t, rec)["code"])
}

func TestLandingPage(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/contact"`)

	post := func(form url.Values, ua string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", ua)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		return rec
	}

	rec = post(url.Values{"name": {"Ann"}, "email": {"a@x.com"}, "message": {"hello"}},
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flash-success")

	subs := list(t, srv, http.MethodGet, "/api/contacts", "").Data
	require.Len(t, subs, 1)
	assert.Equal(t, core.PlatformMobile, subs[0].Platform)

	rec = post(url.Values{"name": {"Wide"}, "email": {"w@x.com"}, "message": {"hello"}, "width": {"1280"}},
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148")
	require.Equal(t, http.StatusOK, rec.Code)
	subs = list(t, srv, http.MethodGet, "/api/contacts", "").Data
	require.Len(t, subs, 2)
	assert.Equal(t, core.PlatformDesktop, subs[0].Platform, "posted width wins over the User-Agent")

	rec = post(url.Values{"name": {"<b>Bob</b>"}, "message": {"hello"}, "width": {"600"}}, "curl/8")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="width" value="600"`)
	assert.Contains(t, rec.Body.String(), "flash-error")
	assert.Contains(t, rec.Body.String(), "&lt;b&gt;Bob&lt;/b&gt;")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	create(t, srv, "Ann", "a@x.com", "Tablet")
	for i := 0; i < 5; i++ {
		create(t, srv, "Bot", "bot@x.com", fmt.Sprintf("junk-%d", i))
	}

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `contactdesk_submissions_created_total{platform="Tablet"} 1`)
	assert.Contains(t, body, `contactdesk_submissions_created_total{platform="Other"} 5`)
	assert.NotContains(t, body, "junk-")
}
