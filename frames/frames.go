// Package frames pulls a representative still image out of a generated
// clip so the next generation call can be seeded for visual
// continuity. Every failure here is non-fatal: the pipeline simply
// loses continuity for one clip.
package frames

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"clipforge/config"
	"clipforge/types"
)

// Extractor shells out to ffmpeg to grab a frame from a clip's media
type Extractor struct {
	seekSeconds float64
	timeout     time.Duration
}

// New creates an Extractor with its own per-call timeout, independent
// of the provider timeout
func New(cfg config.FramesConfig) *Extractor {
	return &Extractor{
		seekSeconds: cfg.SeekSeconds,
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
	}
}

// Extract returns a still image from the clip, or nil when extraction
// is not possible. Fallback clips are skipped outright: stock assets
// carry no continuity worth seeding.
func (e *Extractor) Extract(ctx context.Context, clip types.Clip) *types.ReferenceFrame {
	if clip.IsFallback {
		return nil
	}
	if clip.MediaLocator == "" {
		log.Printf("[frames] clip %d: no media locator — skipping", clip.Index)
		return nil
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Printf("[frames] ffmpeg not available — continuing without reference frames")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outFile := filepath.Join(os.TempDir(), fmt.Sprintf("clipforge_frame_%d_%d.jpg", clip.Index, time.Now().UnixNano()))
	defer os.Remove(outFile)

	// ffmpeg reads http(s) locators directly
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-ss", fmt.Sprintf("%.2f", e.seekSeconds),
		"-i", clip.MediaLocator,
		"-frames:v", "1",
		"-q:v", "3",
		outFile,
	)
	if err := cmd.Run(); err != nil {
		log.Printf("[frames] clip %d: extraction failed: %v — continuing without continuity", clip.Index, err)
		return nil
	}

	data, err := os.ReadFile(outFile)
	if err != nil || len(data) == 0 {
		log.Printf("[frames] clip %d: unreadable frame output — continuing without continuity", clip.Index)
		return nil
	}

	return &types.ReferenceFrame{ClipIndex: clip.Index, Image: data}
}
