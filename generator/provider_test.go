package generator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clipforge/config"
)

func providerFor(t *testing.T, handler http.HandlerFunc, timeoutSec int) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPProvider(config.ProviderConfig{
		Endpoint:   srv.URL,
		Resolution: "1280x720",
		TimeoutSec: timeoutSec,
	})
}

func testRequest() Request {
	return Request{
		Prompt:          "a quiet forest, cinematic",
		AspectRatio:     "16:9",
		Resolution:      "1280x720",
		Style:           "cinematic",
		DurationSeconds: 4,
	}
}

// TestHTTPProviderOk classifies a well-formed response as Ok.
func TestHTTPProviderOk(t *testing.T) {
	p := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"media_url":"https://cdn.example.com/v.mp4","thumbnail_url":"https://cdn.example.com/t.jpg"}`))
	}, 5)

	res := p.Generate(context.Background(), testRequest())
	if res.Kind != Ok {
		t.Fatalf("kind = %v (%v), want ok", res.Kind, res.Err)
	}
	if res.MediaLocator != "https://cdn.example.com/v.mp4" {
		t.Fatalf("media locator = %q", res.MediaLocator)
	}
}

// TestHTTPProviderServerError maps a 5xx to ProviderUnavailable.
func TestHTTPProviderServerError(t *testing.T) {
	p := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}, 5)

	if res := p.Generate(context.Background(), testRequest()); res.Kind != ProviderUnavailable {
		t.Fatalf("kind = %v, want provider unavailable", res.Kind)
	}
}

// TestHTTPProviderMalformedBody maps undecodable JSON to
// InvalidResponse.
func TestHTTPProviderMalformedBody(t *testing.T) {
	p := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}, 5)

	if res := p.Generate(context.Background(), testRequest()); res.Kind != InvalidResponse {
		t.Fatalf("kind = %v, want invalid response", res.Kind)
	}
}

// TestHTTPProviderEmptyMediaURL treats a "success" without a usable
// media URL as InvalidResponse, never as a first-class outcome.
func TestHTTPProviderEmptyMediaURL(t *testing.T) {
	p := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"media_url":"  "}`))
	}, 5)

	if res := p.Generate(context.Background(), testRequest()); res.Kind != InvalidResponse {
		t.Fatalf("kind = %v, want invalid response", res.Kind)
	}
}

// TestHTTPProviderErrorField maps an in-band provider error to
// ProviderUnavailable.
func TestHTTPProviderErrorField(t *testing.T) {
	p := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}, 5)

	if res := p.Generate(context.Background(), testRequest()); res.Kind != ProviderUnavailable {
		t.Fatalf("kind = %v, want provider unavailable", res.Kind)
	}
}

// TestHTTPProviderTimeout classifies a stalled call as Timeout.
func TestHTTPProviderTimeout(t *testing.T) {
	p := providerFor(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}, 1)

	if res := p.Generate(context.Background(), testRequest()); res.Kind != Timeout {
		t.Fatalf("kind = %v (%v), want timeout", res.Kind, res.Err)
	}
}

// TestHTTPProviderUnreachable maps a connection failure to
// ProviderUnavailable.
func TestHTTPProviderUnreachable(t *testing.T) {
	p := NewHTTPProvider(config.ProviderConfig{
		Endpoint:   "http://127.0.0.1:1",
		Resolution: "1280x720",
		TimeoutSec: 2,
	})

	if res := p.Generate(context.Background(), testRequest()); res.Kind != ProviderUnavailable {
		t.Fatalf("kind = %v (%v), want provider unavailable", res.Kind, res.Err)
	}
}
