package renderer

import (
	"image"
	"image/color"
)

// PixelSink receives finished pixels. Workers call SetPixel concurrently,
// but never for the same pixel twice.
type PixelSink interface {
	SetPixel(x, y int, c color.RGBA)
}

// ImageSink collects pixels into an in-memory image
type ImageSink struct {
	img *image.RGBA
}

// NewImageSink creates a sink backed by a new width x height image
func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel writes one pixel. Distinct pixels occupy distinct bytes, so no locking is needed.
func (s *ImageSink) SetPixel(x, y int, c color.RGBA) {
	s.img.SetRGBA(x, y, c)
}

// Image returns the backing image
func (s *ImageSink) Image() *image.RGBA {
	return s.img
}
