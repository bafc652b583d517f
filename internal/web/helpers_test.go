package web

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadValuesFlattensJSON(t *testing.T) {
	body := `{"kind":"ad_copy","title":"Spring","tags":["ugc","video"],"attributes":{"headline":"Save 20%","cta":"Shop"},"budget":12.5,"skip":null}`
	req := httptest.NewRequest(http.MethodPost, "/api/assets?platform=google&kind=content", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	values, err := readValues(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, "ad_copy", values.Get("kind"), "body wins over query")
	assert.Equal(t, "google", values.Get("platform"))
	assert.Equal(t, "ugc,video", values.Get("tags"))
	assert.Equal(t, "Save 20%", values.Get("attributes.headline"))
	assert.Equal(t, "12.5", values.Get("budget"))
	assert.False(t, values.Has("skip"))

	f := newFormValues(values)
	assert.Equal(t, map[string]string{"headline": "Save 20%", "cta": "Shop"}, f.prefixed("attributes"))
}

func TestReadValuesRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	_, err := readValues(httptest.NewRecorder(), req)
	assert.Error(t, err)
}

func TestFormValues(t *testing.T) {
	f := newFormValues(map[string][]string{
		"spend":  {" 12.50 "},
		"clicks": {"1.5"},
		"start":  {"2024-05-01"},
		"end":    {"yesterday"},
		"ok":     {"true"},
	})

	assert.Equal(t, 12.5, f.float("spend"))
	assert.Equal(t, 0.0, f.float("missing"))
	assert.Equal(t, int64(0), f.int("clicks"))
	start := f.date("start")
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Nil(t, f.date("end"))
	assert.True(t, f.bool("ok"))

	err := f.err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clicks")
	assert.Contains(t, err.Error(), "end")
}

func TestFormValuesRejectsNonFinite(t *testing.T) {
	f := newFormValues(map[string][]string{"spend": {"NaN"}, "revenue": {"-Inf"}})

	assert.Equal(t, 0.0, f.float("spend"))
	assert.Equal(t, 0.0, f.float("revenue"))

	err := f.err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spend: must be a number")
	assert.Contains(t, err.Error(), "revenue: must be a number")
}

func TestWriteJSONUnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"spend": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestIPLimiter(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"), "buckets are per address")

	now = now.Add(time.Second)
	assert.True(t, l.allow("10.0.0.1"), "one token refills per second")

	now = now.Add(visitorTTL + time.Second)
	l.evict(now)
	assert.Empty(t, l.limiters)
}
