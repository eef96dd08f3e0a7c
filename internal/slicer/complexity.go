package slicer

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"manga-translator/internal/config"
)

// WorthTranslating reports whether a chunk carries enough visual content to
// justify a model call. Brightness is sampled on a coarse grid and its
// variance compared against threshold: solid gutters and blank filler panels
// have near-zero variance and can be completed with the original pixels
// unchanged. This is an optimization only; callers must treat a true result
// as "send it" rather than a content guarantee.
func WorthTranslating(img *image.NRGBA, threshold float64) bool {
	b := img.Bounds()
	stride := config.ComplexitySampleStride

	samples := make([]float64, 0, (b.Dx()/stride+1)*(b.Dy()/stride+1))
	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			off := img.PixOffset(x, y)
			r := float64(img.Pix[off])
			g := float64(img.Pix[off+1])
			bl := float64(img.Pix[off+2])
			samples = append(samples, (r+g+bl)/3)
		}
	}

	if len(samples) < 2 {
		return false
	}
	return stat.Variance(samples, nil) >= threshold
}
