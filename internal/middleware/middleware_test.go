package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/milesgilbert/potustracker/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func TestLogging(t *testing.T) {
	// Initialize logger to avoid nil logger in middleware
	logger.Init("error", "text")

	wrappedHandler := Logging(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("User-Agent", "test-agent")

	// Add request ID to context (simulating chi middleware)
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id")
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got %s", w.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	wrappedHandler := Metrics(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestSecurity(t *testing.T) {
	wrappedHandler := Security(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for key, want := range headers {
		if got := w.Header().Get(key); got != want {
			t.Errorf("Expected header %s=%s, got %s", key, want, got)
		}
	}
}

func TestAdminSecret(t *testing.T) {
	logger.Init("error", "text")

	tests := []struct {
		name           string
		secret         string
		header         string
		expectedStatus int
	}{
		{
			name:           "Correct secret",
			secret:         "hunter2",
			header:         "hunter2",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong secret",
			secret:         "hunter2",
			header:         "wrong",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Missing header",
			secret:         "hunter2",
			header:         "",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Admin not configured",
			secret:         "",
			header:         "anything",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedHandler := AdminSecret(tt.secret)(okHandler())

			req := httptest.NewRequest("POST", "/v1/refresh", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Secret", tt.header)
			}

			w := httptest.NewRecorder()
			wrappedHandler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
