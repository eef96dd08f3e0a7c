package slicer

import (
	"image"

	"manga-translator/internal/config"
)

// FindBestCut scans rows [startRow, endRow) of img and returns the absolute
// index of the best row to cut at. Rows are ranked by a composite score:
// energy (lower is better), a bonus for near-white or near-black rows
// (strong gutter indicators), and a small penalty growing with distance from
// the zone midpoint so that among similar candidates the cut lands mid-zone
// rather than at a boundary where hint accuracy is weakest.
//
// Ties resolve to the lowest row index. A degenerate zone (startRow >= endRow)
// returns startRow. Rows outside [startRow, endRow) are never read.
func FindBestCut(img *image.NRGBA, startRow, endRow int) int {
	b := img.Bounds()
	if startRow < b.Min.Y {
		startRow = b.Min.Y
	}
	if endRow > b.Max.Y {
		endRow = b.Max.Y
	}
	if startRow >= endRow {
		return startRow
	}

	mid := float64(startRow+endRow) / 2
	half := float64(endRow-startRow) / 2

	bestRow := startRow
	bestScore := 0.0
	first := true

	for y := startRow; y < endRow; y++ {
		stats := analyzeRow(img, y)

		score := stats.Energy
		if stats.Brightness >= config.GutterBrightCutoff || stats.Brightness <= config.GutterDarkCutoff {
			score -= config.GutterScoreBonus
		}
		if half > 0 {
			score += config.CenterBiasWeight * absFloat(float64(y)-mid) / half
		}

		if first || score < bestScore {
			bestScore = score
			bestRow = y
			first = false
		}
	}

	return bestRow
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
