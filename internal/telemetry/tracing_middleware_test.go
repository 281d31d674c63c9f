package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// newTestTracerProvider creates a tracer provider backed by an in-memory
// exporter so tests can inspect finished spans. The provider is shut
// down when the test completes.
func newTestTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp
}

// spanAttributes flattens a recorded span's attributes into a map for
// assertion convenience.
func spanAttributes(span tracetest.SpanStub) map[string]interface{} {
	attrs := make(map[string]interface{})
	for _, attr := range span.Attributes {
		switch attr.Value.Type().String() {
		case "STRING":
			attrs[string(attr.Key)] = attr.Value.AsString()
		case "INT64":
			attrs[string(attr.Key)] = attr.Value.AsInt64()
		default:
			attrs[string(attr.Key)] = attr.Value.AsInterface()
		}
	}
	return attrs
}

func TestTracingMiddleware_NilProvider(t *testing.T) {
	t.Parallel()

	mw := TracingMiddleware(nil)
	require.NotNil(t, mw)

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.Header().Set("X-Commit", "4f2a91c")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("pushed"))
	})

	wrapped := mw(handler)

	req := httptest.NewRequest(http.MethodPost, "/namespaces/team-a/push", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	assert.True(t, handlerCalled, "expected handler to be called")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "4f2a91c", rr.Header().Get("X-Commit"))
	assert.Equal(t, "pushed", rr.Body.String())
}

func TestTracingMiddleware_SpanCreation(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracerProvider(t)
	mw := TracingMiddleware(tp)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := mw(handler)

	req := httptest.NewRequest(http.MethodGet, "/namespaces/team-a/configs", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "expected exactly one span")

	attrs := spanAttributes(spans[0])
	assert.Equal(t, http.MethodGet, attrs[string(semconv.HTTPRequestMethodKey)])
}

func TestTracingMiddleware_StatusCodeRecording(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		statusCode     int
		wantSpanStatus codes.Code
		wantStatusDesc string
	}{
		{
			name:           "success maps to Ok",
			statusCode:     http.StatusOK,
			wantSpanStatus: codes.Ok,
		},
		{
			name:           "client error leaves status unset",
			statusCode:     http.StatusNotFound,
			wantSpanStatus: codes.Unset,
		},
		{
			name:           "upstream failure maps to Error",
			statusCode:     http.StatusBadGateway,
			wantSpanStatus: codes.Error,
			wantStatusDesc: http.StatusText(http.StatusBadGateway),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, tp := newTestTracerProvider(t)
			mw := TracingMiddleware(tp)

			wrapped := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			req := httptest.NewRequest(http.MethodPost, "/namespaces/team-a/push", nil)
			rr := httptest.NewRecorder()
			wrapped.ServeHTTP(rr, req)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1, "expected exactly one span")

			span := spans[0]
			assert.Equal(t, tt.wantSpanStatus, span.Status.Code)
			assert.Equal(t, tt.wantStatusDesc, span.Status.Description)

			attrs := spanAttributes(span)
			assert.Equal(t, int64(tt.statusCode), attrs[string(semconv.HTTPResponseStatusCodeKey)])
		})
	}
}

func TestTracingMiddleware_TraceContextExtraction(t *testing.T) {
	t.Parallel()

	// W3C Trace Context propagation relies on the global propagator
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	exporter, tp := newTestTracerProvider(t)
	mw := TracingMiddleware(tp)

	wrapped := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	expectedTraceID := "4bf92f3577b34da6a3ce929d0e0e4736"
	parentSpanID := "00f067aa0ba902b7"

	req := httptest.NewRequest(http.MethodGet, "/namespaces/team-a/status", nil)
	req.Header.Set("traceparent", "00-"+expectedTraceID+"-"+parentSpanID+"-01")
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, expectedTraceID, spans[0].SpanContext.TraceID().String())
}

func TestTracingMiddleware_RoutePatternExtraction(t *testing.T) {
	t.Parallel()

	t.Run("span is named after the chi route pattern", func(t *testing.T) {
		t.Parallel()

		exporter, tp := newTestTracerProvider(t)

		r := chi.NewRouter()
		r.Use(TracingMiddleware(tp))
		r.Post("/namespaces/{namespace}/pull/{name}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/namespaces/team-a/pull/billing", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		// The route pattern, not the raw path, keeps span names low-cardinality
		assert.Equal(t, "POST /namespaces/{namespace}/pull/{name}", spans[0].Name)

		attrs := spanAttributes(spans[0])
		assert.Equal(t, "/namespaces/{namespace}/pull/{name}", attrs[string(semconv.HTTPRouteKey)])
	})

	t.Run("falls back to unknown_route outside chi", func(t *testing.T) {
		t.Parallel()

		exporter, tp := newTestTracerProvider(t)
		mw := TracingMiddleware(tp)

		wrapped := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/some/path", nil)
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		assert.Equal(t, "GET unknown_route", spans[0].Name)

		attrs := spanAttributes(spans[0])
		assert.Equal(t, "unknown_route", attrs[string(semconv.HTTPRouteKey)])
	})
}

func TestTracingMiddleware_SpanAttributes(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracerProvider(t)

	r := chi.NewRouter()
	r.Use(TracingMiddleware(tp))
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("User-Agent", "confsync-cli/0.4.1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttributes(spans[0])
	assert.Equal(t, http.MethodGet, attrs[string(semconv.HTTPRequestMethodKey)])
	assert.Equal(t, "/status", attrs[string(semconv.URLPathKey)])
	assert.Equal(t, "confsync-cli/0.4.1", attrs[string(semconv.UserAgentOriginalKey)])
	assert.Equal(t, int64(http.StatusOK), attrs[string(semconv.HTTPResponseStatusCodeKey)])
	assert.Equal(t, "/status", attrs[string(semconv.HTTPRouteKey)])
}

func TestTracingMiddleware_SkipsProbeEndpoints(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/health", "/readiness"} {
		t.Run(strings.TrimPrefix(path, "/"), func(t *testing.T) {
			t.Parallel()

			exporter, tp := newTestTracerProvider(t)
			mw := TracingMiddleware(tp)

			handlerCalled := false
			wrapped := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, path, nil)
			rr := httptest.NewRecorder()
			wrapped.ServeHTTP(rr, req)

			assert.True(t, handlerCalled, "handler should be called")
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Empty(t, exporter.GetSpans(), "probe endpoints should not be traced")
		})
	}
}

func TestTruncateUserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short value unchanged",
			input:    "confsync-cli/0.4.1",
			expected: "confsync-cli/0.4.1",
		},
		{
			name:     "exact limit unchanged",
			input:    strings.Repeat("a", MaxUserAgentLength),
			expected: strings.Repeat("a", MaxUserAgentLength),
		},
		{
			name:     "oversized value truncated",
			input:    strings.Repeat("a", MaxUserAgentLength+64),
			expected: strings.Repeat("a", MaxUserAgentLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, truncateUserAgent(tt.input))
		})
	}
}
