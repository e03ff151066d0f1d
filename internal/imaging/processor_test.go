// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestSaveMenuImage_FitsLargeImage(t *testing.T) {
	root := t.TempDir()
	p := NewProcessor(root)

	rel, err := p.SaveMenuImage(bytes.NewReader(encodePNG(t, createTestImage(1024, 256))), "Summer Sale.PNG")
	if err != nil {
		t.Fatalf("SaveMenuImage: %v", err)
	}

	if !strings.HasPrefix(rel, "menu/") || !strings.HasSuffix(rel, "/summer-sale.png") {
		t.Errorf("relative path = %q", rel)
	}
	if parts := strings.Split(rel, "/"); len(parts) != 3 || len(parts[1]) != 36 {
		t.Errorf("expected menu/<uuid>/<name>, got %q", rel)
	}

	saved, err := imaging.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("open saved image: %v", err)
	}
	if b := saved.Bounds(); b.Dx() != 512 || b.Dy() != 128 {
		t.Errorf("saved size = %dx%d, want 512x128", b.Dx(), b.Dy())
	}
}

func TestSaveMenuImage_SmallImageKeepsSize(t *testing.T) {
	root := t.TempDir()
	p := NewProcessor(root)

	rel, err := p.SaveMenuImage(bytes.NewReader(encodePNG(t, createTestImage(40, 30))), "icon.png")
	if err != nil {
		t.Fatalf("SaveMenuImage: %v", err)
	}
	saved, err := imaging.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	if b := saved.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("saved size = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestSaveMenuImage_RejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	_, err := p.SaveMenuImage(strings.NewReader("just some text"), "notes.txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveMenuImage_RejectsOversize(t *testing.T) {
	p := NewProcessor(t.TempDir())

	_, err := p.SaveMenuImage(bytes.NewReader(make([]byte, MaxUploadBytes+10)), "big.png")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestSaveMenuImage_UniqueDirectories(t *testing.T) {
	root := t.TempDir()
	p := NewProcessor(root)
	data := encodePNG(t, createTestImage(8, 8))

	a, err := p.SaveMenuImage(bytes.NewReader(data), "a.png")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.SaveMenuImage(bytes.NewReader(data), "a.png")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two uploads share a path")
	}

	entries, err := os.ReadDir(p.MenuDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("menu dir has %d entries, want 2", len(entries))
	}
}

func TestAbsPath(t *testing.T) {
	p := NewProcessor("/srv/uploads")

	got, err := p.AbsPath("menu/abc/x.png")
	if err != nil {
		t.Fatalf("AbsPath: %v", err)
	}
	if got != filepath.Join("/srv/uploads", "menu", "abc", "x.png") {
		t.Errorf("AbsPath = %q", got)
	}

	for _, bad := range []string{"", "../etc/passwd", "menu/../../etc/passwd", "other/x.png"} {
		if _, err := p.AbsPath(bad); err == nil {
			t.Errorf("AbsPath(%q) expected error", bad)
		}
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"photo.jpg", ".jpg", "photo.jpg"},
		{"My Photo.v2.jpeg", ".jpg", "my-photo-v2.jpg"},
		{"../../etc/passwd", ".png", "passwd.png"},
		{`C:\Users\me\pic.gif`, ".gif", "pic.gif"},
		{"???.png", ".png", "image.png"},
	}
	for _, tt := range tests {
		if got := safeName(tt.in, tt.ext); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)

	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	if got := detectFormat(encodePNG(t, createTestImage(2, 2))); got != "png" {
		t.Errorf("detectFormat(png) = %q", got)
	}
	if got := detectFormat([]byte("II*\x00")); got != "" {
		t.Errorf("detectFormat(tiff) = %q, want empty", got)
	}
}
