// Package slicer cuts tall comic strips into bounded-height chunks at
// visually safe rows. Cut candidates are scored by a pixel-energy scan;
// AI-suggested safe zones, when available, narrow the search but are never
// required for correctness.
package slicer

import (
	"image"

	"manga-translator/internal/config"
)

// RowStats holds the cut-quality measurements for one image row.
type RowStats struct {
	// Energy is the average per-sample sum of absolute channel deltas
	// between horizontally adjacent samples. Low energy means a flat row,
	// which is the preferred cut location.
	Energy float64
	// Brightness is the average per-sample mean of the R, G and B channels.
	Brightness float64
}

// analyzeRow samples row y of img at a fixed horizontal stride and returns
// its energy and brightness. Pure; reads only row y.
func analyzeRow(img *image.NRGBA, y int) RowStats {
	b := img.Bounds()
	stride := config.RowSampleStride

	var sumBrightness, sumEnergy float64
	samples := 0
	energySamples := 0

	for x := b.Min.X; x < b.Max.X; x += stride {
		off := img.PixOffset(x, y)
		r := int(img.Pix[off])
		g := int(img.Pix[off+1])
		bl := int(img.Pix[off+2])
		sumBrightness += float64(r+g+bl) / 3
		samples++

		// Horizontal activity against the pixel one stride to the right.
		if x+stride < b.Max.X {
			noff := img.PixOffset(x+stride, y)
			dr := absInt(r - int(img.Pix[noff]))
			dg := absInt(g - int(img.Pix[noff+1]))
			db := absInt(bl - int(img.Pix[noff+2]))
			sumEnergy += float64(dr + dg + db)
			energySamples++
		}
	}

	stats := RowStats{}
	if samples > 0 {
		stats.Brightness = sumBrightness / float64(samples)
	}
	if energySamples > 0 {
		stats.Energy = sumEnergy / float64(energySamples)
	}
	return stats
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
