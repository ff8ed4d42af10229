package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clipforge/config"
)

// ResultKind tags a provider call outcome so the fallback decision is
// an explicit case match rather than blanket error swallowing.
type ResultKind int

const (
	Ok ResultKind = iota
	ProviderUnavailable
	Timeout
	InvalidResponse
)

func (k ResultKind) String() string {
	switch k {
	case Ok:
		return "ok"
	case ProviderUnavailable:
		return "provider unavailable"
	case Timeout:
		return "timeout"
	case InvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

// Request is one generation call to the external provider
type Request struct {
	Prompt          string
	AspectRatio     string
	Resolution      string
	Style           string
	DurationSeconds float64
	ReferenceImage  []byte
}

// Result is the tagged outcome of a provider call. MediaLocator and
// ThumbnailLocator are only meaningful when Kind == Ok.
type Result struct {
	Kind             ResultKind
	MediaLocator     string
	ThumbnailLocator string
	Err              error
}

// Provider is the external generation service boundary
type Provider interface {
	Generate(ctx context.Context, req Request) Result
}

// HTTPProvider calls a Pollinations-style generation endpoint
type HTTPProvider struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

// NewHTTPProvider creates a provider client with a bounded per-call
// timeout
func NewHTTPProvider(cfg config.ProviderConfig) *HTTPProvider {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	return &HTTPProvider{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

type providerRequest struct {
	Prompt          string  `json:"prompt"`
	AspectRatio     string  `json:"aspect_ratio"`
	Resolution      string  `json:"resolution"`
	Style           string  `json:"style"`
	DurationSeconds float64 `json:"duration_seconds"`
	ReferenceImage  string  `json:"reference_image,omitempty"`
}

type providerResponse struct {
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Error        string `json:"error"`
}

// Generate performs one provider call and classifies the outcome
func (p *HTTPProvider) Generate(ctx context.Context, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body := providerRequest{
		Prompt:          req.Prompt,
		AspectRatio:     req.AspectRatio,
		Resolution:      req.Resolution,
		Style:           req.Style,
		DurationSeconds: req.DurationSeconds,
	}
	if len(req.ReferenceImage) > 0 {
		body.ReferenceImage = base64.StdEncoding.EncodeToString(req.ReferenceImage)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Result{Kind: InvalidResponse, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Kind: ProviderUnavailable, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "clipforge/1.0")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return Result{Kind: Timeout, Err: err}
		}
		return Result{Kind: ProviderUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Kind: ProviderUnavailable, Err: fmt.Errorf("HTTP %d from provider", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return Result{Kind: Timeout, Err: err}
		}
		return Result{Kind: InvalidResponse, Err: err}
	}

	var pr providerResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return Result{Kind: InvalidResponse, Err: fmt.Errorf("parse provider response: %w", err)}
	}
	if pr.Error != "" {
		return Result{Kind: ProviderUnavailable, Err: fmt.Errorf("provider error: %s", pr.Error)}
	}
	// A "success" without a usable media URL is not a success
	if strings.TrimSpace(pr.MediaURL) == "" {
		return Result{Kind: InvalidResponse, Err: fmt.Errorf("provider response has no media url")}
	}

	return Result{Kind: Ok, MediaLocator: pr.MediaURL, ThumbnailLocator: pr.ThumbnailURL}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
