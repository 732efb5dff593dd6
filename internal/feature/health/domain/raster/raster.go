// Package raster decodes uploaded photos and brings them to a fixed-size RGB grid.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"golang.org/x/image/draw"
)

// DefaultSize is the side length classifiers work on.
const DefaultSize = 224

// MaxPixels bounds width*height of an upload. Compressed size says nothing about decoded size.
const MaxPixels = 40_000_000

var (
	// ErrUnsupportedImage is returned when the bytes are not a jpeg, png or gif.
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")

	// ErrImageDimensions is returned when the header declares more than MaxPixels.
	ErrImageDimensions = errors.New("image dimensions exceed 40 megapixels")
)

// Decode parses an uploaded image. The header is checked first so oversized
// dimensions are refused before any pixel buffer is allocated.
func Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// Resize scales img to size×size with Catmull-Rom, ignoring aspect ratio.
// The result is non-premultiplied so channel values read back as plain RGB.
func Resize(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Normalize returns the image as size×size×3 values in [0,1].
func Normalize(img *image.NRGBA) [][][3]float32 {
	b := img.Bounds()
	out := make([][][3]float32, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := make([][3]float32, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			row[x] = [3]float32{
				float32(img.Pix[i]) / 255,
				float32(img.Pix[i+1]) / 255,
				float32(img.Pix[i+2]) / 255,
			}
		}
		out[y] = row
	}
	return out
}
