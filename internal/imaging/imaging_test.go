package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestResizeToIcon_Downscale(t *testing.T) {
	data := encodeTestImage(t, 512, 512)

	out, err := ResizeToIcon(data, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 128 {
		t.Errorf("expected 128x128, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestResizeToIcon_Upscale(t *testing.T) {
	data := encodeTestImage(t, 16, 16)

	out, err := ResizeToIcon(data, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("expected 128 wide, got %d", img.Bounds().Dx())
	}
}

func TestResizeToIcon_DefaultSize(t *testing.T) {
	data := encodeTestImage(t, 64, 64)

	out, err := ResizeToIcon(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	if img.Bounds().Dx() != DefaultIconSize {
		t.Errorf("expected default %d, got %d", DefaultIconSize, img.Bounds().Dx())
	}
}

func TestResizeToIcon_InvalidData(t *testing.T) {
	_, err := ResizeToIcon([]byte("not an image"), 128)
	if err == nil {
		t.Error("expected error for invalid image data")
	}
}
