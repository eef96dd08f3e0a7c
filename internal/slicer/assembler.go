package slicer

import (
	"image"

	"manga-translator/internal/logger"
)

// Chunk is one emitted sub-image of a sliced strip, tagged with its ordinal
// position for stable naming and reassembly order.
type Chunk struct {
	Index  int
	Top    int // source rows [Top, Bottom) this chunk covers
	Bottom int
	Image  *image.NRGBA
}

// Assemble rasterizes a cut plan into concrete chunks. Each consecutive cut
// pair produces one chunk unless its height falls below minHeight, in which
// case the sliver is skipped entirely; omission merges it into a neighbor as
// far as downstream processing is concerned. Source rows are copied
// verbatim into freshly allocated buffers; src is never mutated.
func Assemble(src *image.NRGBA, plan []int, minHeight int) []Chunk {
	b := src.Bounds()
	width := b.Dx()

	chunks := make([]Chunk, 0, len(plan))
	for i := 0; i+1 < len(plan); i++ {
		y1, y2 := plan[i], plan[i+1]
		if y2-y1 < minHeight {
			logger.Debug("assembler: skipping %dpx sliver at row %d", y2-y1, y1)
			continue
		}

		out := image.NewNRGBA(image.Rect(0, 0, width, y2-y1))
		for y := y1; y < y2; y++ {
			srcOff := src.PixOffset(b.Min.X, y)
			dstOff := out.PixOffset(0, y-y1)
			copy(out.Pix[dstOff:dstOff+width*4], src.Pix[srcOff:srcOff+width*4])
		}

		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Top:    y1,
			Bottom: y2,
			Image:  out,
		})
	}
	return chunks
}

// Stitch concatenates images vertically into one strip, in order. Widths
// must match the first image; the row copy is verbatim, so stitching the
// assembler's output reproduces the source pixels exactly.
func Stitch(images []*image.NRGBA) *image.NRGBA {
	if len(images) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	width := images[0].Bounds().Dx()
	height := 0
	for _, img := range images {
		height += img.Bounds().Dy()
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	row := 0
	for _, img := range images {
		b := img.Bounds()
		w := b.Dx()
		if w > width {
			w = width
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			srcOff := img.PixOffset(b.Min.X, y)
			dstOff := out.PixOffset(0, row)
			copy(out.Pix[dstOff:dstOff+w*4], img.Pix[srcOff:srcOff+w*4])
			row++
		}
	}
	return out
}
