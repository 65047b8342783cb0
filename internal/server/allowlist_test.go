package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseAllowedIPs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		spec      string
		wantErr   bool
		wantAll   bool
		allowedIP string
		deniedIP  string
	}{
		{
			name:    "wildcard allows everyone",
			spec:    "*",
			wantAll: true,
		},
		{
			name:      "single IP",
			spec:      "192.168.1.10",
			allowedIP: "192.168.1.10",
			deniedIP:  "192.168.1.11",
		},
		{
			name:      "comma list with spaces",
			spec:      "10.0.0.1, 10.0.0.2",
			allowedIP: "10.0.0.2",
			deniedIP:  "10.0.0.3",
		},
		{
			name:      "ipv6",
			spec:      "::1",
			allowedIP: "::1",
			deniedIP:  "::2",
		},
		{
			name:    "hostname rejected",
			spec:    "example.com",
			wantErr: true,
		},
		{
			name:    "cidr rejected",
			spec:    "10.0.0.0/8",
			wantErr: true,
		},
		{
			name:    "empty list rejected",
			spec:    " , ",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			al, err := parseAllowedIPs(tc.spec)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseAllowedIPs(%q): want error, got nil", tc.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAllowedIPs(%q): %v", tc.spec, err)
			}
			if al.allowAll != tc.wantAll {
				t.Errorf("allowAll = %v, want %v", al.allowAll, tc.wantAll)
			}
			if tc.allowedIP != "" && !al.allowed(tc.allowedIP) {
				t.Errorf("allowed(%q) = false, want true", tc.allowedIP)
			}
			if tc.deniedIP != "" && al.allowed(tc.deniedIP) {
				t.Errorf("allowed(%q) = true, want false", tc.deniedIP)
			}
		})
	}
}

func TestAllowlistMiddleware_Blocks(t *testing.T) {
	t.Parallel()

	al, err := parseAllowedIPs("10.1.2.3")
	if err != nil {
		t.Fatalf("parseAllowedIPs: %v", err)
	}

	called := false
	h := al.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.RemoteAddr = "192.0.2.9:5000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("want 403, got %d", w.Code)
	}
	if called {
		t.Error("handler must not run for a blocked client")
	}
}

func TestAllowlistMiddleware_Passes(t *testing.T) {
	t.Parallel()

	al, err := parseAllowedIPs("10.1.2.3")
	if err != nil {
		t.Fatalf("parseAllowedIPs: %v", err)
	}

	called := false
	h := al.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.RemoteAddr = "10.1.2.3:5000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("want 200, got %d", w.Code)
	}
	if !called {
		t.Error("handler should run for an allowed client")
	}
}

func TestAllowlistMiddleware_WildcardPassthrough(t *testing.T) {
	t.Parallel()

	al, err := parseAllowedIPs("*")
	if err != nil {
		t.Fatalf("parseAllowedIPs: %v", err)
	}

	called := false
	h := al.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.RemoteAddr = "203.0.113.77:1"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("wildcard allowlist must pass every client through")
	}
}
