package services

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	// Webtoon sources are frequently webp; register the decoder.
	_ "golang.org/x/image/webp"
)

// loadNRGBA opens an image file and normalizes it to NRGBA, the row-major
// RGBA layout the slicer operates on.
func loadNRGBA(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Clone(img), nil
}

// encodePNG serializes a chunk for transport to the model. PNG keeps the
// source pixels lossless, which matters for re-stitching untranslated chunks.
func encodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode chunk: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeNRGBA decodes model-returned image bytes into NRGBA.
func decodeNRGBA(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return imaging.Clone(img), nil
}
