package telemetry

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/sundayezeilo/brandcatalog/internal/config"
)

func TestInitTracer_Disabled(t *testing.T) {
	var out bytes.Buffer
	shutdown, err := InitTracer(config.ObservabilityConfig{}, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("disabled tracer wrote %q", out.String())
	}
}

func TestInitTracer_ExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var out bytes.Buffer
	shutdown, err := InitTracer(config.ObservabilityConfig{
		Enabled:           true,
		ServiceName:       "brandcatalog-test",
		ServiceVersion:    "0.0.1",
		TracingSampleRate: 1,
	}, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Traceparent") == "" {
			t.Error("outbound request carries no traceparent")
		}
	}))
	defer upstream.Close()

	client := &http.Client{Transport: Transport(nil)}
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, _ := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Errorf("outbound request: %v", err)
			return
		}
		resp.Body.Close()
	}), "catalog.redeploy")

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/catalog/redeploy", nil))

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
	for _, want := range []string{"catalog.redeploy", "brandcatalog-test"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("exported spans missing %q", want)
		}
	}
}
