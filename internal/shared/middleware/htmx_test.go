package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMX(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    HTMXRequest
		isHTMX  bool
	}{
		{name: "plain request", headers: nil, want: HTMXRequest{}, isHTMX: false},
		{
			name:    "fragment request",
			headers: map[string]string{"HX-Request": "true", "HX-Target": "result"},
			want:    HTMXRequest{Enabled: true, Target: "result"},
			isHTMX:  true,
		},
		{
			name:    "boosted navigation",
			headers: map[string]string{"HX-Request": "true", "HX-Boosted": "true"},
			want:    HTMXRequest{Enabled: true, Boosted: true},
			isHTMX:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			var got HTMXRequest
			var isHTMX bool
			HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = HTMXFrom(r)
				isHTMX = IsHTMX(r)
			})).ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("HTMXFrom() = %+v, want %+v", got, tt.want)
			}
			if isHTMX != tt.isHTMX {
				t.Errorf("IsHTMX() = %v, want %v", isHTMX, tt.isHTMX)
			}
		})
	}
}

func TestIsHTMXWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	if IsHTMX(req) {
		t.Error("IsHTMX() = true without middleware")
	}
}

func TestRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	Redirect(rec, "/campaigns/c1")
	if got := rec.Header().Get("HX-Redirect"); got != "/campaigns/c1" {
		t.Errorf("HX-Redirect = %q", got)
	}
}
