// Package tracker owns the per-job state machine: it accepts scripts,
// drives segmentation, iterates clip generation with reference-frame
// hand-off, and answers status queries.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"clipforge/config"
	"clipforge/publisher"
	"clipforge/segmenter"
	"clipforge/types"
)

// ErrEmptyScript rejects blank submissions before a job is created
var ErrEmptyScript = errors.New("script is empty")

// ClipGenerator produces the clip for one segment; provider outages
// must surface as fallback clips, not errors
type ClipGenerator interface {
	Generate(ctx context.Context, seg types.Segment, opts types.Options, prev *types.ReferenceFrame) (types.Clip, error)
}

// FrameExtractor pulls a continuity seed from a clip, nil when none is
// available
type FrameExtractor interface {
	Extract(ctx context.Context, clip types.Clip) *types.ReferenceFrame
}

// Tracker drives jobs from submission to a terminal state. Exactly one
// runner goroutine mutates a given job; everyone else reads snapshots.
type Tracker struct {
	cfg       *config.Config
	repo      Repository
	generator ClipGenerator
	frames    FrameExtractor
	publisher publisher.Publisher
}

// New wires a Tracker from its collaborators
func New(cfg *config.Config, repo Repository, gen ClipGenerator, fx FrameExtractor, pub publisher.Publisher) *Tracker {
	return &Tracker{
		cfg:       cfg,
		repo:      repo,
		generator: gen,
		frames:    fx,
		publisher: pub,
	}
}

// Submit validates the request, registers a pending job and starts its
// runner. The returned id can be polled immediately.
func (t *Tracker) Submit(script string, opts types.Options) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", ErrEmptyScript
	}
	opts = t.withDefaults(opts)
	if opts.MaxClips < 1 {
		return "", fmt.Errorf("max_clips must be >= 1, got %d", opts.MaxClips)
	}
	if opts.ClipDurationSeconds <= 0 {
		return "", fmt.Errorf("clip_duration_seconds must be > 0, got %v", opts.ClipDurationSeconds)
	}

	job := &types.Job{
		ID:        uuid.NewString(),
		Script:    script,
		Options:   opts,
		Status:    types.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := t.repo.Create(job); err != nil {
		return "", err
	}

	log.Printf("[tracker] job %s accepted (%d chars, style %q)", job.ID, len(script), opts.Style)
	go t.run(context.Background(), job.ID)
	return job.ID, nil
}

// Status returns a consistent snapshot of one job
func (t *Tracker) Status(id string) (types.Job, error) {
	return t.repo.Get(id)
}

// List returns snapshots of all known jobs, most recent first
func (t *Tracker) List() []types.Job {
	return t.repo.List()
}

// withDefaults fills unset options from config
func (t *Tracker) withDefaults(opts types.Options) types.Options {
	defaults := t.cfg.Jobs
	if opts.Style == "" {
		opts.Style = defaults.DefaultStyle
	}
	if opts.ClipDurationSeconds == 0 {
		opts.ClipDurationSeconds = defaults.DefaultClipSeconds
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = defaults.DefaultAspectRatio
	}
	if opts.MaxClips == 0 {
		opts.MaxClips = defaults.DefaultMaxClips
	}
	return opts
}

// run is the single writer for one job: it owns every transition from
// pending to a terminal state. Steps within the job are strictly
// sequential because each clip may be seeded by the previous clip's
// reference frame.
func (t *Tracker) run(ctx context.Context, id string) {
	job, err := t.repo.Get(id)
	if err != nil {
		log.Printf("[tracker] job %s vanished before start: %v", id, err)
		return
	}

	segments := segmenter.Split(job.Script, job.Options.ClipDurationSeconds)
	if len(segments) == 0 {
		t.fail(id, "script produced no segments")
		return
	}
	if len(segments) > job.Options.MaxClips {
		segments = segments[:job.Options.MaxClips]
	}

	if err := t.repo.Update(id, func(j *types.Job) {
		j.Status = types.StatusProcessing
		j.Segments = segments
	}); err != nil {
		log.Printf("[tracker] job %s: %v", id, err)
		return
	}
	log.Printf("[tracker] job %s: %d segment(s)", id, len(segments))

	var prevFrame *types.ReferenceFrame
	for i, seg := range segments {
		clip, err := t.generator.Generate(ctx, seg, job.Options, prevFrame)
		if err != nil {
			// Programmer/validation fault — the only per-clip error
			// class that aborts a job
			t.fail(id, fmt.Sprintf("segment %d: %v", seg.Index, err))
			return
		}

		// Append the clip and recompute progress as one atomic step
		if err := t.repo.Update(id, func(j *types.Job) {
			j.Clips = append(j.Clips, clip)
			j.Progress = 100 * len(j.Clips) / len(j.Segments)
		}); err != nil {
			log.Printf("[tracker] job %s: %v", id, err)
			return
		}
		log.Printf("[tracker] job %s: clip %d/%d done (fallback=%v)", id, seg.Index+1, len(segments), clip.IsFallback)

		// Seed the next iteration; the last clip needs no successor
		if i < len(segments)-1 {
			prevFrame = t.frames.Extract(ctx, clip)
			if prevFrame != nil {
				t.retainFrame(id, *prevFrame)
			}
		}
	}

	t.complete(ctx, id)
}

// retainFrame records a reference frame for audit, bounded to the most
// recent few
func (t *Tracker) retainFrame(id string, frame types.ReferenceFrame) {
	keep := t.cfg.Jobs.RetainedFrames
	_ = t.repo.Update(id, func(j *types.Job) {
		j.Frames = append(j.Frames, frame)
		if keep >= 0 && len(j.Frames) > keep {
			j.Frames = append([]types.ReferenceFrame(nil), j.Frames[len(j.Frames)-keep:]...)
		}
	})
}

// complete publishes the final artifact and finalizes the job. Publish
// failure degrades to the last clip's own locator with a warning: the
// caller always gets something playable.
func (t *Tracker) complete(ctx context.Context, id string) {
	job, err := t.repo.Get(id)
	if err != nil || len(job.Clips) == 0 {
		t.fail(id, "no clips recorded at completion")
		return
	}
	lastClip := job.Clips[len(job.Clips)-1]

	var links publisher.Links
	var warning string
	if t.cfg.Publish.Enabled && t.publisher != nil {
		name := fmt.Sprintf("%s_%s", t.cfg.Publish.FolderName, job.ID[:8])
		links, err = t.publisher.Publish(ctx, lastClip.MediaLocator, name)
		if err != nil {
			warning = fmt.Sprintf("publish failed: %v", err)
			log.Printf("[tracker] job %s: %s — keeping clip locator", id, warning)
		}
	}
	if links.DownloadLink == "" {
		links.DownloadLink = lastClip.MediaLocator
	}

	now := time.Now().UTC()
	_ = t.repo.Update(id, func(j *types.Job) {
		j.Status = types.StatusCompleted
		j.Progress = 100
		j.FinalViewLink = links.ViewLink
		j.FinalDownloadLink = links.DownloadLink
		j.Warning = warning
		j.CompletedAt = &now
	})
	log.Printf("[tracker] ✅ job %s completed (%d clips)", id, len(job.Clips))
}

func (t *Tracker) fail(id, msg string) {
	now := time.Now().UTC()
	_ = t.repo.Update(id, func(j *types.Job) {
		j.Status = types.StatusFailed
		j.Error = msg
		j.CompletedAt = &now
	})
	log.Printf("[tracker] ❌ job %s failed: %s", id, msg)
}
