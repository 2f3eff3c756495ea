package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap/zaptest"
	"moodlequiz/internal/log"
	"moodlequiz/internal/metrics"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestLogging(t *testing.T) {
	log.Logger = zaptest.NewLogger(t)

	tests := []struct {
		name     string
		incoming string
	}{
		{name: "Generated id"},
		{name: "Incoming id is kept", incoming: "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()
			Logging(okHandler).ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("X-Request-ID header not set")
			}
			if tt.incoming != "" && got != tt.incoming {
				t.Errorf("X-Request-ID = %q, want %q", got, tt.incoming)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	h := NewRateLimiter(0.001, 2, nil, done).Middleware(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRateLimiterForwardedFor(t *testing.T) {
	tests := []struct {
		name     string
		trusted  []netip.Prefix
		expected []int
	}{
		{
			name:     "Spoofed header does not reset the limit",
			expected: []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests},
		},
		{
			name:     "Trusted proxy forwards distinct clients",
			trusted:  []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
			expected: []int{http.StatusOK, http.StatusOK, http.StatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{})
			defer close(done)
			h := NewRateLimiter(0.001, 1, tt.trusted, done).Middleware(okHandler)

			for i, clientIP := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.RemoteAddr = "10.0.0.1:5000"
				req.Header.Set("X-Forwarded-For", clientIP)
				rr := httptest.NewRecorder()
				h.ServeHTTP(rr, req)
				if rr.Code != tt.expected[i] {
					t.Errorf("request %d status = %d, want %d", i, rr.Code, tt.expected[i])
				}
			}
		})
	}
}

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		name       string
		user, pass string
		setAuth    bool
		expected   int
	}{
		{name: "Valid credentials", user: "admin", pass: "secret", setAuth: true, expected: http.StatusOK},
		{name: "Wrong password", user: "admin", pass: "nope", setAuth: true, expected: http.StatusUnauthorized},
		{name: "Missing header", expected: http.StatusUnauthorized},
	}

	h := BasicAuth("admin", "secret")(okHandler)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.expected {
				t.Errorf("status = %d, want %d", rr.Code, tt.expected)
			}
			if tt.expected == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header not set")
			}
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	var recovered error
	h := RecoverPanic(zaptest.NewLogger(t), func(w http.ResponseWriter, r *http.Request, err error) {
		recovered = err
		w.WriteHeader(http.StatusInternalServerError)
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if recovered == nil || recovered.Error() != "boom" {
		t.Errorf("recovered error = %v, want boom", recovered)
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /attempts/{attemptID}/state", okHandler)
	h := Metrics(mux)

	counter := func(path, status string) float64 {
		var m dto.Metric
		if err := metrics.HTTPRequestsTotal.WithLabelValues(path, http.MethodGet, status).Write(&m); err != nil {
			t.Fatalf("read counter: %v", err)
		}
		return m.GetCounter().GetValue()
	}

	pattern := "GET /attempts/{attemptID}/state"
	before := counter(pattern, "200")
	beforeUnmatched := counter("unmatched", "404")

	for _, target := range []string{"/attempts/1/state", "/attempts/2/state", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	if got := counter(pattern, "200") - before; got != 2 {
		t.Errorf("pattern counter increased by %v, want 2", got)
	}
	if got := counter("unmatched", "404") - beforeUnmatched; got != 1 {
		t.Errorf("unmatched counter increased by %v, want 1", got)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://quiz.example.com"}, "X-Moodle-Token")(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://quiz.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Moodle-Token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://quiz.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin for unknown origin = %q, want empty", got)
	}
}
