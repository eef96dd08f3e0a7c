package slicer

import (
	"context"
	"image"
	"math"
	"sort"

	"manga-translator/internal/config"
	"manga-translator/internal/logger"
)

// SafeZoneKind classifies why a zone was suggested as a safe cut region.
type SafeZoneKind int

const (
	ZoneGutter SafeZoneKind = iota
	ZoneSafeBackground
)

func (k SafeZoneKind) String() string {
	switch k {
	case ZoneGutter:
		return "gutter"
	case ZoneSafeBackground:
		return "safe-background"
	default:
		return "unknown"
	}
}

// SafeZone is a vertical range of the image, in height fractions, proposed
// by an external suggester as a safe place to cut. Zones are untrusted
// input: they may be empty, inverted, overlapping or out of range, and are
// clamped before any pixel access.
type SafeZone struct {
	Start float64
	End   float64
	Kind  SafeZoneKind
}

// SuggestFunc asks an external source for safe zones. Any error or garbage
// response downgrades the slicer to its pure pixel-scan fallback; it is
// never surfaced to the caller.
type SuggestFunc func(ctx context.Context, img *image.NRGBA) ([]SafeZone, error)

// Options are the slicing heuristics. Optimal values depend on the comic
// corpus, so they are configuration rather than constants.
type Options struct {
	TargetHeight       int // preferred chunk height
	HintTolerance      int // max |zone midpoint - desired cut| to use a hint
	FallbackHalfWindow int // half-width of the scan window without hints
	PassMargin         int // zones whose midpoint lies before cursor+margin are spent
	MinChunkHeight     int // assembler sliver threshold
}

// DefaultOptions returns the tuned defaults from internal/config.
func DefaultOptions() Options {
	return Options{
		TargetHeight:       config.TargetChunkHeight,
		HintTolerance:      config.HintTolerance,
		FallbackHalfWindow: config.FallbackHalfWindow,
		PassMargin:         config.ZonePassMargin,
		MinChunkHeight:     config.MinChunkHeight,
	}
}

// Slicer decomposes a tall strip into chunks of roughly TargetHeight pixels.
type Slicer struct {
	opts    Options
	suggest SuggestFunc // nil disables hints
}

func New(opts Options, suggest SuggestFunc) *Slicer {
	if opts.TargetHeight <= 0 {
		opts.TargetHeight = config.TargetChunkHeight
	}
	if opts.MinChunkHeight <= 0 {
		opts.MinChunkHeight = config.MinChunkHeight
	}
	return &Slicer{opts: opts, suggest: suggest}
}

// CutPlan computes the ordered cut rows for img: strictly increasing,
// starting at the top edge and ending at the bottom edge. An image within
// SingleChunkFactor of the target height gets the trivial two-entry plan.
func (s *Slicer) CutPlan(ctx context.Context, img *image.NRGBA) []int {
	b := img.Bounds()
	height := b.Dy()

	if float64(height) <= float64(s.opts.TargetHeight)*config.SingleChunkFactor {
		return []int{b.Min.Y, b.Max.Y}
	}

	zones := s.hints(ctx, img)

	cuts := []int{b.Min.Y}
	pos := b.Min.Y
	for {
		desired := pos + s.opts.TargetHeight
		if desired >= b.Max.Y {
			break
		}

		cut, ok := s.cutFromZones(img, zones, pos, desired)
		if !ok {
			cut = s.fallbackCut(img, desired)
		}

		// Forward-progress guard: a cut at or before the cursor would
		// produce a zero-height chunk or loop forever.
		if cut <= pos {
			cut = pos + s.opts.TargetHeight
		}

		cuts = append(cuts, cut)
		pos = cut
	}
	cuts = append(cuts, b.Max.Y)

	return normalizePlan(cuts, b.Min.Y, b.Max.Y)
}

// Split computes the cut plan and rasterizes it into chunks. A trivial plan
// means the whole image is one chunk; the sliver filter never applies to it,
// so even an image shorter than MinChunkHeight comes back whole.
func (s *Slicer) Split(ctx context.Context, img *image.NRGBA) []Chunk {
	plan := s.CutPlan(ctx, img)
	if len(plan) == 2 {
		return Assemble(img, plan, 0)
	}
	return Assemble(img, plan, s.opts.MinChunkHeight)
}

// hints fetches zone suggestions, downgrading every failure to "no hints".
func (s *Slicer) hints(ctx context.Context, img *image.NRGBA) []SafeZone {
	if s.suggest == nil {
		return nil
	}
	zones, err := s.suggest(ctx, img)
	if err != nil {
		logger.Debug("slicer: zone suggestion failed, using pixel scan only: %v", err)
		return nil
	}
	return zones
}

// cutFromZones picks the unspent zone whose midpoint is closest to the
// desired cut and, if it lies within the tolerance window, scans it for the
// exact cut row. Returns false when no zone qualifies.
func (s *Slicer) cutFromZones(img *image.NRGBA, zones []SafeZone, pos, desired int) (int, bool) {
	b := img.Bounds()
	height := b.Dy()

	bestDist := math.MaxFloat64
	var best *SafeZone
	for i := range zones {
		z := clampZone(zones[i])
		mid := b.Min.Y + int((z.Start+z.End)/2*float64(height))
		if mid <= pos+s.opts.PassMargin {
			continue // already passed this zone
		}
		dist := absFloat(float64(mid - desired))
		if dist < bestDist {
			bestDist = dist
			zc := z
			best = &zc
		}
	}

	if best == nil || bestDist > float64(s.opts.HintTolerance) {
		return 0, false
	}

	zs := b.Min.Y + int(best.Start*float64(height))
	ze := b.Min.Y + int(best.End*float64(height))
	cut := FindBestCut(img, zs, ze)
	logger.Debug("slicer: zone hint [%d,%d) (%s) -> cut %d", zs, ze, best.Kind, cut)
	return cut, true
}

// fallbackCut scans a symmetric window around the desired position. This
// path needs no external guidance and always yields a cut.
func (s *Slicer) fallbackCut(img *image.NRGBA, desired int) int {
	b := img.Bounds()
	lo := desired - s.opts.FallbackHalfWindow
	hi := desired + s.opts.FallbackHalfWindow
	if lo < b.Min.Y {
		lo = b.Min.Y
	}
	if hi > b.Max.Y {
		hi = b.Max.Y
	}
	return FindBestCut(img, lo, hi)
}

// clampZone normalizes an untrusted zone into [0,1] with Start <= End.
// NaNs collapse to zero so they can never drive a pixel read.
func clampZone(z SafeZone) SafeZone {
	z.Start = clamp01(z.Start)
	z.End = clamp01(z.End)
	if z.Start > z.End {
		z.Start, z.End = z.End, z.Start
	}
	return z
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizePlan sorts, deduplicates and bounds-clamps the cut rows,
// guaranteeing a strictly increasing sequence from top to bottom.
func normalizePlan(cuts []int, top, bottom int) []int {
	sort.Ints(cuts)
	plan := make([]int, 0, len(cuts))
	plan = append(plan, top)
	for _, c := range cuts {
		if c <= plan[len(plan)-1] || c >= bottom {
			continue
		}
		plan = append(plan, c)
	}
	plan = append(plan, bottom)
	return plan
}
