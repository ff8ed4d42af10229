package types

import "time"

// JobStatus is the lifecycle state of a generation job
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Segment is one clip-sized chunk of the submitted script
type Segment struct {
	Index          int    `json:"index"`
	Text           string `json:"text"`
	EstimatedWords int    `json:"estimated_words"`
}

// ReferenceFrame is a still image pulled from a generated clip,
// used to seed the next clip for visual continuity
type ReferenceFrame struct {
	ClipIndex int    `json:"clip_index"`
	Image     []byte `json:"-"`
}

// Clip is the video artifact produced (or substituted) for one segment
type Clip struct {
	Index            int       `json:"index"`
	SourceSegment    Segment   `json:"source_segment"`
	MediaLocator     string    `json:"media_locator"`
	ThumbnailLocator string    `json:"thumbnail_locator,omitempty"`
	IsFallback       bool      `json:"is_fallback"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Options are the per-job generation options. Every recognized option
// is enumerated here; unknown keys in a request are a decode error,
// not a silent no-op.
type Options struct {
	Style               string  `json:"style" yaml:"style"`
	ClipDurationSeconds float64 `json:"clip_duration_seconds" yaml:"clip_duration_seconds"`
	AspectRatio         string  `json:"aspect_ratio" yaml:"aspect_ratio"`
	MaxClips            int     `json:"max_clips" yaml:"max_clips"`
}

// Job tracks one end-to-end script → video request
type Job struct {
	ID        string    `json:"id"`
	Script    string    `json:"script"`
	Options   Options   `json:"options"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Segments  []Segment `json:"segments,omitempty"`
	Clips     []Clip    `json:"clips"`
	// Frames keeps the most recent reference frames for audit only;
	// the tracker bounds it to the last few.
	Frames            []ReferenceFrame `json:"-"`
	FinalViewLink     string           `json:"final_view_link,omitempty"`
	FinalDownloadLink string           `json:"final_download_link,omitempty"`
	Warning           string           `json:"warning,omitempty"`
	Error             string           `json:"error,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
}

// Terminal reports whether the job can no longer transition
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Clone returns a deep copy so readers never share slices with the
// tracked record
func (j *Job) Clone() Job {
	out := *j
	out.Segments = append([]Segment(nil), j.Segments...)
	out.Clips = append([]Clip(nil), j.Clips...)
	out.Frames = append([]ReferenceFrame(nil), j.Frames...)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
