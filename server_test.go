package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clipforge/config"
	"clipforge/publisher"
	"clipforge/tracker"
	"clipforge/types"
)

type okGenerator struct{}

func (okGenerator) Generate(ctx context.Context, seg types.Segment, opts types.Options, prev *types.ReferenceFrame) (types.Clip, error) {
	return types.Clip{
		Index:         seg.Index,
		SourceSegment: seg,
		MediaLocator:  fmt.Sprintf("https://cdn.example.com/clip_%d.mp4", seg.Index),
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

type nilFrames struct{}

func (nilFrames) Extract(ctx context.Context, clip types.Clip) *types.ReferenceFrame { return nil }

type okPublisher struct{}

func (okPublisher) Publish(ctx context.Context, mediaLocator, name string) (publisher.Links, error) {
	return publisher.Links{ViewLink: "https://drive.example.com/view", DownloadLink: "https://drive.example.com/dl"}, nil
}

func newTestMux(t *testing.T) (*http.ServeMux, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New(config.Default(), tracker.NewMemoryRepository(), okGenerator{}, nilFrames{}, okPublisher{})
	return newMux(tr), tr
}

// TestAPISubmitAndStatus walks the submit → poll → list flow.
func TestAPISubmitAndStatus(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{"script":"A quiet morning begins.","options":{"max_clips":5}}`
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d body %s", rec.Code, rec.Body.String())
	}

	var sub submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if sub.JobID == "" {
		t.Fatal("empty job id")
	}

	deadline := time.Now().Add(5 * time.Second)
	var job types.Job
	for {
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/"+sub.JobID, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if job.Status == types.StatusCompleted || job.Status == types.StatusFailed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job never finished")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if job.Status != types.StatusCompleted {
		t.Fatalf("job status = %s (%s)", job.Status, job.Error)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	var jobs []types.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != sub.JobID {
		t.Fatalf("list = %+v", jobs)
	}
}

// TestAPIRejectsBadRequests covers validation and unknown-field
// handling.
func TestAPIRejectsBadRequests(t *testing.T) {
	mux, _ := newTestMux(t)

	cases := []string{
		`{"script":""}`,
		`{"script":"ok.","options":{"max_clips":-1}}`,
		`{"script":"ok.","optionz":{}}`, // unknown field
		`not json`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

// TestAPIStatusNotFound returns 404 for unknown job ids.
func TestAPIStatusNotFound(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/unknown-id", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
