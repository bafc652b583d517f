package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/analytics"
	"github.com/emiliopalmerini/adpulse/internal/backup"
	"github.com/emiliopalmerini/adpulse/internal/demo"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
)

var fixedNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func newServer(t *testing.T, cfg Config, repos *ports.Repositories) *Server {
	t.Helper()
	if repos == nil {
		repos = memory.NewRepositories(memory.NewStore())
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-secret-test-secret-test-sec"
	}
	n := 0
	tr := tracker.NewService(repos, nil, nil,
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	s := NewServer(cfg, repos, tr, analytics.NewService(repos, nil), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func do(t *testing.T, s *Server, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

var htmx = map[string]string{"HX-Request": "true"}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndStatic(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/static/app.css", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestPagesRenderWithDemoData(t *testing.T) {
	repos, err := demo.NewRepositories(context.Background(), fixedNow)
	require.NoError(t, err)
	s := newServer(t, Config{Demo: true}, repos)

	for _, path := range []string{"/", "/campaigns", "/tests", "/learnings", "/failures", "/library", "/library?kind=ad_copy", "/settings"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), "<!doctype html>")
			assert.Contains(t, rec.Body.String(), "demo")
		})
	}
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	s := newServer(t, Config{}, nil)

	for _, path := range []string{"/api/campaigns/nope", "/api/tests/nope", "/campaigns/nope"} {
		rec := do(t, s, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	for _, path := range []string{
		"/api/campaigns/nope", "/api/tests/nope", "/api/metrics/nope",
		"/api/learnings/nope", "/api/failures/nope", "/api/assets/nope",
	} {
		rec := do(t, s, http.MethodDelete, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "DELETE "+path)
	}
}

func TestRecordMetricsTwiceDeletesStoredRow(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/campaigns", `{"name":"Spring","platform":"google"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ids []string
	for _, spend := range []string{"10", "20"} {
		rec = do(t, s, http.MethodPost, "/api/campaigns/id-1/metrics",
			url.Values{"date": {"2024-05-01"}, "spend": {spend}}.Encode(), nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode(t, rec)["metrics"].(map[string]any)["id"].(string))
	}
	assert.Equal(t, ids[0], ids[1])

	rec = do(t, s, http.MethodDelete, "/api/metrics/"+ids[1], "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/metrics/"+ids[1], "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCampaignJSON(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/campaigns",
		`{"name":"Spring sale","platform":"Facebook","funnel_stage":"Conversion","daily_budget":20,"start_date":"2024-05-01"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "id-1", body["id"])
	assert.Equal(t, "facebook", body["platform"])
	assert.Equal(t, "conversion", strings.ToLower(body["funnel_stage"].(string)))
	assert.InDelta(t, 20.0, body["daily_budget"], 1e-9)

	rec = do(t, s, http.MethodGet, "/api/campaigns", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["campaigns"], 1)
}

func TestCreateCampaignHTMXRedirects(t *testing.T) {
	s := newServer(t, Config{}, nil)

	form := url.Values{"name": {"Retarget"}, "platform": {"google"}, "funnel_stage": {"Retention"}}
	rec := do(t, s, http.MethodPost, "/api/campaigns", form.Encode(), htmx)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/campaigns/id-1", rec.Header().Get("HX-Redirect"))
}

func TestCreateCampaignValidation(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/campaigns", `{"platform":"google","daily_budget":"lots"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields, ok := decode(t, rec)["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "daily_budget")

	rec = do(t, s, http.MethodPost, "/api/campaigns", url.Values{"platform": {"google"}}.Encode(), htmx)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "name")
}

func TestTestLifecycleOverHTTP(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/tests", `{"name":"Headline","element":"headline"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/tests/id-1/results",
		`{"control_visitors":1000,"control_conversions":50,"variant_visitors":1000,"variant_conversions":80}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode(t, rec)["result"].(map[string]any)
	assert.Equal(t, "variant", result["winner"])

	rec = do(t, s, http.MethodPost, "/api/tests/id-1/end", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/tests/id-1/end", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCalcSignificance(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/calc/significance",
		`{"control_visitors":1000,"control_conversions":50,"variant_visitors":1000,"variant_conversions":80}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "variant", body["winner"])
	assert.Equal(t, true, body["significant"])

	form := url.Values{
		"control_visitors": {"1000"}, "control_conversions": {"50"},
		"variant_visitors": {"1000"}, "variant_conversions": {"80"},
	}
	rec = do(t, s, http.MethodPost, "/api/calc/significance", form.Encode(), htmx)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Variant wins")

	rec = do(t, s, http.MethodPost, "/api/calc/significance",
		`{"control_visitors":10,"control_conversions":20}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCalcMetricsAndDiagnose(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/calc/metrics",
		`{"spend":100,"impressions":10000,"clicks":200,"conversions":4,"revenue":300}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	derived := decode(t, rec)["derived"].(map[string]any)
	assert.InDelta(t, 10.0, derived["cpm"], 1e-9)
	assert.InDelta(t, 0.5, derived["cpc"], 1e-9)
	assert.InDelta(t, 3.0, derived["roas"], 1e-9)

	rec = do(t, s, http.MethodPost, "/api/calc/diagnose",
		`{"spend":100,"impressions":10000,"clicks":200,"funnel_stage":"upsell"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNonFiniteNumbersAreRejected(t *testing.T) {
	s := newServer(t, Config{}, nil)

	for _, v := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		rec := do(t, s, http.MethodPost, "/api/calc/metrics", url.Values{"spend": {v}}.Encode(), nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, v)
		assert.Contains(t, decode(t, rec)["fields"], "spend", v)
	}

	rec := do(t, s, http.MethodPost, "/api/campaigns", `{"name":"Spring","platform":"google"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/campaigns/id-1/metrics",
		url.Values{"date": {"2024-05-01"}, "spend": {"Inf"}}.Encode(), nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/campaigns", `{"name":"Summer","platform":"google","daily_budget":"NaN"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/campaigns", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["campaigns"], 1)
}

func TestSampleSize(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodGet, "/api/calc/sample-size?baseline_rate=0.05&min_lift=0.2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	perArm := body["per_arm"].(float64)
	assert.Greater(t, perArm, 0.0)
	assert.Equal(t, perArm*2, body["total"])

	rec = do(t, s, http.MethodGet, "/api/calc/sample-size?baseline_rate=2", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreferencesCookie(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodPost, "/api/preferences", `{"theme":"dark","currency":"eur"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/api/preferences", strings.NewReader(`{"period":"7d"}`))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, "EUR", body["currency"])
	assert.Equal(t, "7d", body["period"])

	rec = do(t, s, http.MethodPost, "/api/preferences", `{"theme":"neon"}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newServer(t, Config{RateLimit: 0.001, RateBurst: 2}, nil)

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodGet, "/api/campaigns", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/api/campaigns", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Pages are not limited.
	rec = do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitForwardedFor(t *testing.T) {
	forwarded := func(ip string) map[string]string { return map[string]string{"X-Forwarded-For": ip} }

	s := newServer(t, Config{RateLimit: 0.001, RateBurst: 1}, nil)
	rec := do(t, s, http.MethodGet, "/api/campaigns", "", forwarded("203.0.113.1"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/campaigns", "", forwarded("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "forwarded headers are ignored by default")

	s = newServer(t, Config{RateLimit: 0.001, RateBurst: 1, TrustProxy: true}, nil)
	rec = do(t, s, http.MethodGet, "/api/campaigns", "", forwarded("203.0.113.1"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/campaigns", "", forwarded("203.0.113.2"))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/campaigns", "", forwarded("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestExportCampaignsCSV(t *testing.T) {
	s := newServer(t, Config{}, nil)
	rec := do(t, s, http.MethodPost, "/api/campaigns", `{"name":"Spring, sale","platform":"google","funnel_stage":"Awareness"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/export/campaigns?format=csv", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "campaigns.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,name,platform"))
	assert.True(t, strings.HasPrefix(lines[1], `id-1,"Spring, sale",google`))
}

func TestExportBackup(t *testing.T) {
	repos, err := demo.NewRepositories(context.Background(), fixedNow)
	require.NoError(t, err)
	s := newServer(t, Config{}, repos)

	rec := do(t, s, http.MethodGet, "/api/export/backup", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "adpulse-backup-2024-05-10.json")

	snap, err := backup.Decode(rec.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Campaigns)
	assert.NotEmpty(t, snap.Metrics)
	assert.NotNil(t, snap.Profile)
}

func TestStoreErrorsAreInternal(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	repos.Campaigns = &mockCampaignRepository{
		ListFunc: func(ctx context.Context, _ domain.CampaignFilter) ([]*domain.Campaign, error) {
			return nil, errors.New("connection reset")
		},
	}
	s := newServer(t, Config{}, repos)

	rec := do(t, s, http.MethodGet, "/api/campaigns", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec)["error"])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	s := newServer(t, Config{}, nil)

	rec := do(t, s, http.MethodGet, "/api/export/metrics?format=xml", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/export/metrics?campaign=nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
