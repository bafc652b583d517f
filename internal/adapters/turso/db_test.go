package turso

import (
	"net/url"
	"testing"
)

func TestConnectionString(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		token     string
		wantToken string
		wantQuery map[string]string
	}{
		{name: "no token", url: "libsql://adpulse.turso.io"},
		{
			name:      "plain token",
			url:       "libsql://adpulse.turso.io",
			token:     "abc.def",
			wantToken: "abc.def",
		},
		{
			name:      "token with reserved characters",
			url:       "libsql://adpulse.turso.io",
			token:     "a+b/c=&tls=0",
			wantToken: "a+b/c=&tls=0",
		},
		{
			name:      "existing query is kept",
			url:       "libsql://adpulse.turso.io?tls=1",
			token:     "abc",
			wantToken: "abc",
			wantQuery: map[string]string{"tls": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := connectionString(tt.url, tt.token)
			if err != nil {
				t.Fatalf("connectionString() error = %v", err)
			}
			if tt.token == "" {
				if got != tt.url {
					t.Errorf("connectionString() = %q, want %q", got, tt.url)
				}
				return
			}

			u, err := url.Parse(got)
			if err != nil {
				t.Fatalf("result is not a URL: %v", err)
			}
			q := u.Query()
			if q.Get("authToken") != tt.wantToken {
				t.Errorf("authToken = %q, want %q", q.Get("authToken"), tt.wantToken)
			}
			if _, ok := tt.wantQuery["tls"]; !ok && q.Has("tls") {
				t.Errorf("token leaked into other parameters: %v", q)
			}
			for k, v := range tt.wantQuery {
				if q.Get(k) != v {
					t.Errorf("%s = %q, want %q", k, q.Get(k), v)
				}
			}
		})
	}
}

func TestConnectionStringInvalidURL(t *testing.T) {
	if _, err := connectionString("libsql://bad host\x7f", "abc"); err == nil {
		t.Error("expected an error for an unparsable URL")
	}
}
