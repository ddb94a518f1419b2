package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PhotoProcessor rescales and re-encodes ticket photos. Output is always
// JPEG: both persistence paths (object store and inline base64) expect a
// lossy, quality-controlled encoding.
type PhotoProcessor struct {
}

func New() *PhotoProcessor {
	return &PhotoProcessor{}
}

// Compress decodes data, fits it inside maxDim x maxDim (aspect ratio kept,
// never upscaled) and re-encodes it as JPEG at the given quality in (0, 1].
func (p *PhotoProcessor) Compress(ctx context.Context, data []byte, maxDim int, quality float64) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("PhotoProcessor - Compress - decodeImage: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	res, err := encodeJPEG(img, quality)
	if err != nil {
		return nil, fmt.Errorf("PhotoProcessor - Compress - encodeJPEG: %w", err)
	}

	return res, nil
}

// CompressDataURL is Compress over the data-URL encoding the intake pipeline
// trades in.
func (p *PhotoProcessor) CompressDataURL(ctx context.Context, dataURL string, maxDim int, quality float64) (string, error) {
	data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("PhotoProcessor - CompressDataURL - DecodeDataURL: %w", err)
	}

	res, err := p.Compress(ctx, data, maxDim, quality)
	if err != nil {
		return "", fmt.Errorf("PhotoProcessor - CompressDataURL: %w", err)
	}

	return EncodeDataURL(res), nil
}

// SnapshotDataURL renders a live frame into a fixed-size JPEG snapshot, the
// way the capture modal draws the feed onto its canvas.
func (p *PhotoProcessor) SnapshotDataURL(ctx context.Context, frame image.Image, width, height int, quality float64) (string, error) {
	resized := imaging.Resize(frame, width, height, imaging.Lanczos)

	res, err := encodeJPEG(resized, quality)
	if err != nil {
		return "", fmt.Errorf("PhotoProcessor - SnapshotDataURL - encodeJPEG: %w", err)
	}

	return EncodeDataURL(res), nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("PhotoProcessor - decodeImage - imaging.Decode: %w", err)
	}

	return img, nil
}

func encodeJPEG(img image.Image, quality float64) ([]byte, error) {
	q := int(quality*100 + 0.5)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}

	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(q))
	if err != nil {
		return nil, fmt.Errorf("PhotoProcessor - encodeJPEG - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
