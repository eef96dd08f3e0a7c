package slicer

import "testing"

func TestWorthTranslatingFlat(t *testing.T) {
	img := fillImage(64, 64, 255)
	if WorthTranslating(img, 25.0) {
		t.Error("solid white chunk should not be worth translating")
	}
}

func TestWorthTranslatingBusy(t *testing.T) {
	img := noiseImage(64, 64)
	if !WorthTranslating(img, 25.0) {
		t.Error("busy chunk should be worth translating")
	}
}

func TestWorthTranslatingTiny(t *testing.T) {
	// Fewer than two grid samples: no variance to measure, skip the call.
	img := noiseImage(4, 4)
	if WorthTranslating(img, 0) {
		t.Error("degenerate chunk should never be worth a model call")
	}
}

func TestWorthTranslatingThresholdBoundary(t *testing.T) {
	// A flat image has variance exactly zero, which meets a zero threshold.
	img := fillImage(64, 64, 128)
	if !WorthTranslating(img, 0) {
		t.Error("threshold 0 should admit every measurable chunk")
	}
}
