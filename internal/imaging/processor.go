// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores menu item thumbnails under the uploads directory.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MenuSubdir is the directory under the uploads root that holds item images.
const MenuSubdir = "menu"

// Thumbnail bounds and upload limits.
const (
	MaxThumbWidth  = 512
	MaxThumbHeight = 512
	MaxUploadBytes = 10 << 20
	jpegQuality    = 88
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not JPEG, PNG, GIF or WebP.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned for uploads above MaxUploadBytes.
	ErrTooLarge = errors.New("image exceeds upload size limit")
)

// Processor writes normalized menu images below an uploads root.
type Processor struct {
	root string
}

// NewProcessor creates a processor rooted at uploadsDir.
func NewProcessor(uploadsDir string) *Processor {
	return &Processor{root: uploadsDir}
}

// Root returns the uploads directory.
func (p *Processor) Root() string {
	return p.root
}

// MenuDir returns the absolute-or-relative directory holding item images.
func (p *Processor) MenuDir() string {
	return filepath.Join(p.root, MenuSubdir)
}

// SaveMenuImage decodes an upload, corrects its EXIF orientation, fits it
// within MaxThumbWidth x MaxThumbHeight and writes it to
// <root>/menu/<uuid>/<name>. It returns the slash-separated path relative
// to root, which is what menu items store.
func (p *Processor) SaveMenuImage(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return "", ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	b := img.Bounds()
	if b.Dx() > MaxThumbWidth || b.Dy() > MaxThumbHeight {
		img = imaging.Fit(img, MaxThumbWidth, MaxThumbHeight, imaging.Lanczos)
	}

	out, ext, err := encodeImage(img, format)
	if err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}

	name := safeName(filename, ext)
	rel := path.Join(MenuSubdir, uuid.NewString(), name)
	abs := filepath.Join(p.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}
	if err := os.WriteFile(abs, out, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return rel, nil
}

// AbsPath resolves a stored relative image path under root. Paths escaping
// root are rejected.
func (p *Processor) AbsPath(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" || !strings.HasPrefix(clean, "/"+MenuSubdir+"/") {
		return "", fmt.Errorf("invalid image path %q", rel)
	}
	return filepath.Join(p.root, filepath.FromSlash(clean[1:])), nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF tag values 2-8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage re-encodes img. WebP has no pure Go encoder and becomes JPEG.
func encodeImage(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	var err error
	ext := "." + format

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		ext = ".jpg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ext, nil
}

// detectFormat sniffs the upload. TIFF is rejected outright
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// safeName keeps the base name of an upload, restricted to a conservative
// character set, with ext as its extension.
func safeName(filename, ext string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var sb strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ' || r == '.':
			sb.WriteRune('-')
		}
	}
	name := strings.Trim(sb.String(), "-")
	if name == "" {
		name = "image"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name + ext
}
