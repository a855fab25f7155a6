package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	defaultMaxWidth = 1200
	defaultQuality  = 80
)

type compressedImage struct {
	data   []byte
	width  int
	height int
}

// compressImage shrinks src to at most maxWidth pixels wide, never enlarging
// it, and re-encodes it as JPEG. Transparent areas are flattened onto white.
func compressImage(src []byte, maxWidth, quality int) (*compressedImage, error) {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &compressedImage{data: buf.Bytes(), width: bounds.Dx(), height: bounds.Dy()}, nil
}

// imageDimensions reads only the header; zeros when it cannot be decoded.
func imageDimensions(src []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
