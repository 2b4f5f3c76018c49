// Package output encodes rendered frames to image files.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for an image format with no encoder
var ErrUnknownFormat = errors.New("output: unknown image format")

// Format names an image encoding
type Format string

// Supported formats
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	PPM  Format = "ppm"
)

// Formats lists every supported format
var Formats = []Format{PNG, BMP, TIFF, PPM}

// ParseFormat parses a format name such as "png" or ".TIF"
func ParseFormat(name string) (Format, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	switch name {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "ppm":
		return PPM, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	case PPM:
		return "image/x-portable-pixmap"
	}
	return "application/octet-stream"
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case PPM:
		err = encodePPM(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// WriteFile creates path and writes img to it. An empty format is taken from the extension.
func WriteFile(path string, img image.Image, format Format) (err error) {
	if format == "" {
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return Encode(f, img, format)
}

// encodePPM writes a plain-text P3 pixmap with one pixel per line
func encodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
