// Package debug provides debug visualization utilities.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/bmp"
)

// Supported dump formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// DepthImage converts a bottom-up float depth buffer into a top-down
// grayscale image. Values are clamped to [0, 1]; near is dark, far is light.
func DepthImage(depth []float32, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 || len(depth) != width*height {
		return nil, fmt.Errorf("depth data size mismatch: %dx%d needs %d values, got %d",
			width, height, width*height, len(depth))
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := depth[(height-1-y)*width : (height-y)*width]
		for x, d := range src {
			img.SetGray(x, y, color.Gray{Y: toByte(d)})
		}
	}
	return img, nil
}

func toByte(d float32) uint8 {
	switch {
	case math.IsNaN(float64(d)) || d <= 0:
		return 0
	case d >= 1:
		return 255
	default:
		return uint8(d*255 + 0.5)
	}
}

func encoderFor(format string) (func(io.Writer, image.Image) error, error) {
	switch format {
	case FormatPNG, "":
		return png.Encode, nil
	case FormatBMP:
		return bmp.Encode, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
}

// ValidFormat reports whether format can be passed to SaveDepth.
func ValidFormat(format string) bool {
	_, err := encoderFor(format)
	return err == nil
}

// SaveDepth writes depth as a timestamped image in dir and returns its path.
// An empty format means PNG.
func SaveDepth(dir, prefix, format string, depth []float32, width, height int) (string, error) {
	encode, err := encoderFor(format)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = FormatPNG
	}

	img, err := DepthImage(depth, width, height)
	if err != nil {
		return "", err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("2006-01-02_15-04-05.000"), format))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", format, err)
	}
	return filename, nil
}
