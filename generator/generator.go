// Package generator produces one clip per script segment, calling the
// external generation provider and degrading to a deterministic stock
// fallback when the provider is unavailable.
package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"clipforge/config"
	"clipforge/types"
)

// styleModifiers enhance the base prompt per requested style
var styleModifiers = map[string]string{
	"cinematic":   "cinematic lighting, shallow depth of field, film grain, 4K",
	"documentary": "natural lighting, handheld realism, muted color grade",
	"vibrant":     "saturated colors, high energy, dynamic composition",
	"minimal":     "clean composition, soft light, negative space",
	"noir":        "high contrast black and white, dramatic shadows",
}

const defaultStyleModifier = "cinematic, balanced composition, photorealistic"

// Generator turns segments into clips
type Generator struct {
	provider   Provider
	resolution string
	catalog    map[string]string
}

// New creates a Generator backed by the configured HTTP provider
func New(cfg *config.Config) *Generator {
	return NewWithProvider(NewHTTPProvider(cfg.Provider), cfg)
}

// NewWithProvider creates a Generator with an explicit provider,
// mainly so tests can substitute one
func NewWithProvider(p Provider, cfg *config.Config) *Generator {
	catalog := make(map[string]string, len(defaultCatalog))
	for k, v := range defaultCatalog {
		catalog[k] = v
	}
	for k, v := range cfg.Fallback.CategoryAssets {
		if _, known := catalog[k]; known && v != "" {
			catalog[k] = v
		}
	}
	return &Generator{
		provider:   p,
		resolution: cfg.Provider.Resolution,
		catalog:    catalog,
	}
}

// Generate produces the clip for one segment. Provider unavailability
// never returns an error: the clip degrades to a stock fallback. An
// error here means malformed input, which is a caller bug.
func (g *Generator) Generate(ctx context.Context, seg types.Segment, opts types.Options, prev *types.ReferenceFrame) (types.Clip, error) {
	if strings.TrimSpace(seg.Text) == "" {
		return types.Clip{}, fmt.Errorf("segment %d has empty text", seg.Index)
	}
	if opts.ClipDurationSeconds <= 0 {
		return types.Clip{}, fmt.Errorf("clip duration must be > 0, got %v", opts.ClipDurationSeconds)
	}
	if opts.AspectRatio == "" {
		return types.Clip{}, fmt.Errorf("aspect ratio must be set")
	}

	req := Request{
		Prompt:          buildPrompt(seg, opts, prev != nil),
		AspectRatio:     opts.AspectRatio,
		Resolution:      g.resolution,
		Style:           opts.Style,
		DurationSeconds: opts.ClipDurationSeconds,
	}
	if prev != nil {
		req.ReferenceImage = prev.Image
	}

	res := g.provider.Generate(ctx, req)
	switch res.Kind {
	case Ok:
		return types.Clip{
			Index:            seg.Index,
			SourceSegment:    seg,
			MediaLocator:     res.MediaLocator,
			ThumbnailLocator: res.ThumbnailLocator,
			GeneratedAt:      time.Now().UTC(),
		}, nil
	case ProviderUnavailable, Timeout, InvalidResponse:
		log.Printf("[generator] segment %d: provider %s (%v) — using stock fallback", seg.Index, res.Kind, res.Err)
		return g.fallbackClip(seg), nil
	default:
		return types.Clip{}, fmt.Errorf("unknown provider result kind %d", res.Kind)
	}
}

// fallbackClip picks the deterministic stock asset for a segment
func (g *Generator) fallbackClip(seg types.Segment) types.Clip {
	category := fallbackCategory(seg.Text)
	locator := g.catalog[category]
	log.Printf("[generator] segment %d: fallback category %q", seg.Index, category)
	return types.Clip{
		Index:         seg.Index,
		SourceSegment: seg,
		MediaLocator:  locator,
		IsFallback:    true,
		GeneratedAt:   time.Now().UTC(),
	}
}

// buildPrompt embeds the narration, style and framing constraints, and
// a continuity instruction when a reference frame seeds this call
func buildPrompt(seg types.Segment, opts types.Options, hasReference bool) string {
	modifier, ok := styleModifiers[strings.ToLower(opts.Style)]
	if !ok {
		modifier = defaultStyleModifier
	}

	var sb strings.Builder
	sb.WriteString(seg.Text)
	sb.WriteString(", ")
	sb.WriteString(modifier)
	fmt.Fprintf(&sb, ", %s aspect ratio, %.0f second shot", opts.AspectRatio, opts.ClipDurationSeconds)
	if hasReference {
		sb.WriteString(", maintain visual continuity with the supplied reference image: same palette, setting and subjects")
	}
	sb.WriteString(", no text, no watermark")
	return sb.String()
}
