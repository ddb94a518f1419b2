package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/maintdesk/ticket-intake/pkg/types/errs"
)

func testImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}

	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}

	return img
}

func TestCompress_ScalesDownToBound(t *testing.T) {
	p := New()

	out, err := p.Compress(context.Background(), testImage(t, 1800, 1200), 900, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bounds := decodeJPEG(t, out).Bounds()
	if bounds.Dx() > 900 || bounds.Dy() > 900 {
		t.Errorf("expected result inside 900x900, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	// aspect ratio 3:2 survives the fit
	if bounds.Dx() != 900 || bounds.Dy() != 600 {
		t.Errorf("expected 900x600, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCompress_NeverUpscales(t *testing.T) {
	p := New()

	out, err := p.Compress(context.Background(), testImage(t, 400, 300), 900, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bounds := decodeJPEG(t, out).Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 300 {
		t.Errorf("expected 400x300 unchanged, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCompress_RejectsGarbage(t *testing.T) {
	p := New()

	_, err := p.Compress(context.Background(), []byte("not an image"), 900, 0.5)
	if err == nil {
		t.Fatal("expected error for undecodable data")
	}
}

func TestCompressDataURL_RoundTrip(t *testing.T) {
	p := New()

	src := EncodeDataURL(testImageJPEG(t, 1600, 900))

	out, err := p.CompressDataURL(context.Background(), src, 900, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Errorf("expected jpeg data URL, got prefix %q", out[:min(len(out), 30)])
	}

	data, err := DecodeDataURL(out)
	if err != nil {
		t.Fatalf("decode result data URL: %v", err)
	}

	bounds := decodeJPEG(t, data).Bounds()
	if bounds.Dx() != 900 {
		t.Errorf("expected width 900, got %d", bounds.Dx())
	}
}

func testImageJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img, err := imaging.Decode(bytes.NewReader(testImage(t, width, height)))
	if err != nil {
		t.Fatalf("decode test png: %v", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}

	return buf.Bytes()
}

func TestSnapshotDataURL_ExactSize(t *testing.T) {
	p := New()

	frame := image.NewRGBA(image.Rect(0, 0, 640, 480))

	out, err := p.SnapshotDataURL(context.Background(), frame, 1280, 720, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := DecodeDataURL(out)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	bounds := decodeJPEG(t, data).Bounds()
	if bounds.Dx() != 1280 || bounds.Dy() != 720 {
		t.Errorf("expected 1280x720, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDecodeDataURL_RejectsNonDataURL(t *testing.T) {
	_, err := DecodeDataURL("https://example.com/photo.jpg")
	if !errors.Is(err, errs.ErrUnsupportedImageData) {
		t.Fatalf("expected ErrUnsupportedImageData, got %v", err)
	}
}

func TestDecodedSize(t *testing.T) {
	data := []byte("0123456789AB")
	url := EncodeDataURL(data)

	if got := DecodedSize(url); got != len(data) {
		t.Errorf("expected %d, got %d", len(data), got)
	}
	if got := DecodedSize("no marker here"); got != 0 {
		t.Errorf("expected 0 for non data URL, got %d", got)
	}
}
