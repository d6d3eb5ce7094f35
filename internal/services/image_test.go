package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"kleinimg/internal/compression"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNewImageService(t *testing.T) {
	service := NewImageService(nil)
	if service == nil || service.compressor == nil {
		t.Fatal("Expected service with a default compressor")
	}
}

func TestImageService_CompressData(t *testing.T) {
	service := NewImageService(nil)
	data := testPNG(t, 64, 48)

	result, err := service.CompressData("photo.png", data, "product", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Profile.Name != "product" {
		t.Errorf("Expected product profile, got %s", result.Profile.Name)
	}
	if result.File.Name != "photo.jpg" {
		t.Errorf("Expected photo.jpg, got %s", result.File.Name)
	}
	if result.Width != 64 || result.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", result.Width, result.Height)
	}
}

func TestImageService_CompressData_WebP(t *testing.T) {
	service := NewImageService(nil)
	result, err := service.CompressData("photo.png", testPNG(t, 32, 32), "", "webp")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.File.ContentType != "image/webp" {
		t.Errorf("Expected image/webp, got %s", result.File.ContentType)
	}
}

func TestImageService_CompressData_InvalidInput(t *testing.T) {
	service := NewImageService(nil)

	if _, err := service.CompressData("a.png", testPNG(t, 4, 4), "avatar", ""); err == nil {
		t.Error("Expected error for unknown purpose")
	}
	if _, err := service.CompressData("a.png", testPNG(t, 4, 4), "", "gif"); err == nil {
		t.Error("Expected error for unknown format")
	}

	_, err := service.CompressData("notes.txt", []byte("not an image"), "", "")
	if !errors.Is(err, compression.ErrDecode) {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestImageService_Profiles(t *testing.T) {
	profiles := NewImageService(nil).Profiles()
	if len(profiles) != len(compression.Profiles()) {
		t.Errorf("Expected %d profiles, got %d", len(compression.Profiles()), len(profiles))
	}
}
