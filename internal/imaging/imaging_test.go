package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func decode(t *testing.T, p *Photo) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img
}

func TestProcessJPEG(t *testing.T) {
	photo, err := Process(bytes.NewReader(encodeJPEG(solid(100, 80, color.RGBA{200, 0, 0, 255}))))
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 100 || photo.Height != 80 {
		t.Errorf("small photo should keep its size, got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessDownscalePreservesAspect(t *testing.T) {
	photo, err := Process(bytes.NewReader(encodeJPEG(solid(1000, 2000, color.RGBA{0, 0, 200, 255}))))
	if err != nil {
		t.Fatalf("Process tall photo: %v", err)
	}

	b := decode(t, photo).Bounds()
	if b.Dy() != MaxDimension || b.Dx() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension/2, MaxDimension, b.Dx(), b.Dy())
	}
}

func TestProcessFlattensTransparency(t *testing.T) {
	photo, err := Process(bytes.NewReader(encodePNG(solid(20, 20, color.RGBA{0, 0, 0, 0}))))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}

	r, g, b, _ := decode(t, photo).At(10, 10).RGBA()
	// JPEG is lossy; near-white is enough.
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected transparent pixels to become white, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestProcessTooLarge(t *testing.T) {
	data := make([]byte, MaxUploadBytes+1)
	copy(data, encodePNG(solid(2, 2, color.White)))

	_, err := Process(bytes.NewReader(data))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestProcessRejectsUnsupported(t *testing.T) {
	tests := map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
	}
	for name, data := range tests {
		if _, err := Process(bytes.NewReader(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h, maxDim int
		wantW, wantH int
	}{
		{100, 100, 1024, 100, 100},
		{2048, 1024, 1024, 1024, 512},
		{1024, 4096, 1024, 256, 1024},
		{5000, 1, 1024, 1024, 1},
	}
	for _, tt := range tests {
		w, h := scaledSize(tt.w, tt.h, tt.maxDim)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("scaledSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.maxDim, w, h, tt.wantW, tt.wantH)
		}
	}
}
