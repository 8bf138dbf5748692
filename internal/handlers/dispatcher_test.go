package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"law-ai-api/internal/identity"
	"law-ai-api/pkg/lambda"
)

var fixedTime = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestDispatcher(routes ...Route) *Dispatcher {
	return NewDispatcher(DispatcherConfig{
		ServiceName:   "law-ai-api",
		Version:       "1.0.0",
		Cors:          DefaultCorsPolicy("*"),
		StagePrefixes: []string{"/dev"},
		Routes:        routes,
	},
		WithLogger(testLogger()),
		WithClock(func() time.Time { return fixedTime }),
		WithSecrets("super-secret-value"),
	)
}

func decodeBody(t *testing.T, resp *lambda.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body), "body: %s", resp.Body)
	return body
}

func assertCORS(t *testing.T, resp *lambda.Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type, Authorization, Accept", resp.Headers["Access-Control-Allow-Headers"])
}

func TestDispatcherPreflight(t *testing.T) {
	d := newTestDispatcher()

	for _, path := range []string{"/", "/health", "/nonexistent", "/dev/anything/at/all", ""} {
		t.Run(path, func(t *testing.T) {
			resp := d.Handle(context.Background(), &lambda.Request{Method: "OPTIONS", Path: path})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Empty(t, resp.Body)
			assertCORS(t, resp)
		})
	}
}

func TestDispatcherPreflightIsCaseSensitive(t *testing.T) {
	d := newTestDispatcher()

	resp := d.Handle(context.Background(), &lambda.Request{Method: "options", Path: "/nonexistent"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDispatcherHealth(t *testing.T) {
	d := newTestDispatcher()

	for _, path := range []string{"/health", "/dev/health", "/health/"} {
		t.Run(path, func(t *testing.T) {
			resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: path})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Body, `"status":"healthy"`)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assertCORS(t, resp)

			body := decodeBody(t, resp)
			assert.Equal(t, "law-ai-api", body["service"])
			assert.Equal(t, "2026-10-16T12:00:00Z", body["timestamp"])
		})
	}
}

func TestDispatcherHealthUsesRequestStage(t *testing.T) {
	d := newTestDispatcher()

	resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/prod/health", Stage: "prod"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDispatcherRoot(t *testing.T) {
	admin := &fakeAdmin{}
	d := newTestDispatcher(NewAdminHandler(admin, "us-east-1_pool").Routes()...)

	for _, path := range []string{"/", "/dev", "/dev/"} {
		t.Run(path, func(t *testing.T) {
			resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: path})

			require.Equal(t, http.StatusOK, resp.StatusCode)
			assertCORS(t, resp)

			var body ServiceDescription
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
			assert.Equal(t, "law-ai-api", body.Service)
			assert.Equal(t, []string{
				"/health",
				"/",
				"PUT /admin/users/{username}/password",
				"GET /admin/clients/{clientId}",
			}, body.Endpoints)
		})
	}
}

func TestDispatcherNotFound(t *testing.T) {
	d := newTestDispatcher()

	resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/nonexistent"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assertCORS(t, resp)

	body := decodeBody(t, resp)
	assert.Equal(t, "/nonexistent", body["path"])
	assert.Equal(t, "GET", body["method"])
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "Route not implemented", body["message"])
}

func TestDispatcherSlashHandling(t *testing.T) {
	d := newTestDispatcher()

	tests := []struct {
		path   string
		status int
	}{
		{"/health/", http.StatusOK},
		{"/dev/health/", http.StatusOK},
		{"/dev/", http.StatusOK},
		{"//health", http.StatusNotFound},
		{"/health//", http.StatusNotFound},
		{"/dev//health", http.StatusNotFound},
		{"//", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: tt.path})

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestDispatcherMethodNotAllowed(t *testing.T) {
	d := newTestDispatcher(NewAdminHandler(&fakeAdmin{}, "us-east-1_pool").Routes()...)

	resp := d.Handle(context.Background(), &lambda.Request{Method: "DELETE", Path: "/admin/clients/abc"})

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, OPTIONS", resp.Headers["Allow"])
	assertCORS(t, resp)
}

func TestDispatcherFaultBoundary(t *testing.T) {
	t.Run("Panic", func(t *testing.T) {
		d := newTestDispatcher(Route{
			Method:  "GET",
			Pattern: "/boom",
			Handler: func(ctx context.Context, req *RouteRequest) (*Result, error) {
				panic("secret stack detail")
			},
		})

		resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/boom"})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assertCORS(t, resp)
		body := decodeBody(t, resp)
		assert.Equal(t, "Internal server error", body["error"])
		assert.NotContains(t, resp.Body, "secret stack detail")
		assert.NotContains(t, resp.Body, "goroutine")
	})

	t.Run("UntypedError", func(t *testing.T) {
		d := newTestDispatcher(Route{
			Method:  "GET",
			Pattern: "/fail",
			Handler: func(ctx context.Context, req *RouteRequest) (*Result, error) {
				return nil, errors.New("upstream unavailable")
			},
		})

		resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/fail"})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assertCORS(t, resp)
		body := decodeBody(t, resp)
		assert.Equal(t, "Internal server error", body["error"])
		assert.Equal(t, genericErrorMessage, body["message"])
		assert.NotContains(t, resp.Body, "upstream unavailable")
	})

	t.Run("ErrorCarryingSecret", func(t *testing.T) {
		d := newTestDispatcher(Route{
			Method:  "GET",
			Pattern: "/leak",
			Handler: func(ctx context.Context, req *RouteRequest) (*Result, error) {
				return nil, errors.New("bad key super-secret-value")
			},
		})

		resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/leak"})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, resp.Body, "super-secret-value")
		assert.Equal(t, genericErrorMessage, decodeBody(t, resp)["message"])
	})

	t.Run("NilResult", func(t *testing.T) {
		d := newTestDispatcher(Route{
			Method:  "GET",
			Pattern: "/nil",
			Handler: func(ctx context.Context, req *RouteRequest) (*Result, error) {
				return nil, nil
			},
		})

		resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/nil"})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("UnencodableBody", func(t *testing.T) {
		d := newTestDispatcher(Route{
			Method:  "GET",
			Pattern: "/chan",
			Handler: func(ctx context.Context, req *RouteRequest) (*Result, error) {
				return &Result{StatusCode: http.StatusOK, Body: make(chan int)}, nil
			},
		})

		resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/chan"})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assertCORS(t, resp)
		assert.Equal(t, "Internal server error", decodeBody(t, resp)["error"])
	})

	t.Run("NilRequest", func(t *testing.T) {
		d := newTestDispatcher()

		resp := d.Handle(context.Background(), nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assertCORS(t, resp)
	})
}

func TestDispatcherRequestID(t *testing.T) {
	d := newTestDispatcher()

	resp := d.Handle(context.Background(), &lambda.Request{
		Method:  "GET",
		Path:    "/health",
		Headers: map[string]string{"x-request-id": "abc-123"},
	})
	assert.Equal(t, "abc-123", resp.Headers[RequestIDHeader])

	resp = d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/health"})
	assert.NotEmpty(t, resp.Headers[RequestIDHeader])
}

func TestDispatcherCustomOrigin(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{
		Cors: CorsPolicy{AllowOrigin: "https://app.example.com"},
	}, WithLogger(testLogger()))

	resp := d.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/missing"})

	assert.Equal(t, "https://app.example.com", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
}

func TestStripStage(t *testing.T) {
	prefixes := []string{"/dev", "/prod"}
	tests := map[string]string{
		"/dev/health":  "/health",
		"/prod/health": "/health",
		"/dev":         "/",
		"/dev/":        "/",
		"/developer":   "/developer",
		"/health":      "/health",
		"":             "/",
	}

	for in, want := range tests {
		assert.Equal(t, want, stripStage(in, prefixes), "stripStage(%q)", in)
	}
}

func TestErrorResultMapping(t *testing.T) {
	d := newTestDispatcher()

	tests := []struct {
		name    string
		err     error
		status  int
		fault   bool
		message string
	}{
		{"api error", NewAPIError(http.StatusConflict, "Conflict", "already exists"), http.StatusConflict, false, "already exists"},
		{"configuration", identity.NewConfigurationError("COGNITO_USER_POOL_ID"), http.StatusInternalServerError, false, ""},
		{"provider", &identity.ProviderError{Op: "X", Code: "NotAuthorizedException", Message: "denied"}, http.StatusBadGateway, false, "denied"},
		{"invalid request", identity.ErrInvalidRequest, http.StatusBadRequest, false, "Request validation failed"},
		{"other", errors.New("boom"), http.StatusInternalServerError, true, genericErrorMessage},
		{"wrapped other", fmt.Errorf("load clients: %w", errors.New("dial tcp 10.0.0.1:443")), http.StatusInternalServerError, true, genericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, fault := d.errorResult(tt.err)

			assert.Equal(t, tt.status, result.StatusCode)
			assert.Equal(t, tt.fault, fault)
			if tt.message != "" {
				body, ok := result.Body.(ErrorResponse)
				require.True(t, ok)
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestDispatcherRenderError(t *testing.T) {
	d := newTestDispatcher()

	resp := d.RenderError(nil, BadRequest("Malformed event", errors.New("unexpected end of JSON input")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, resp.Headers[RequestIDHeader])
	assertCORS(t, resp)

	resp = d.RenderError(&lambda.Request{Headers: map[string]string{"X-Request-ID": "r-1"}}, identity.NewConfigurationError("AWS_REGION"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "r-1", resp.Headers[RequestIDHeader])
	assert.Equal(t, "Configuration error", decodeBody(t, resp)["error"])
}
