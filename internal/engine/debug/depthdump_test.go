package debug

import (
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestDepthImageFlipsAndClamps(t *testing.T) {
	// Bottom row first, as glReadPixels returns it.
	depth := []float32{
		0, 1,
		-0.5, 2,
		0.5, float32(math.NaN()),
	}

	img, err := DepthImage(depth, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, uint8(128), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0), img.GrayAt(0, 2).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 2).Y)
}

func TestDepthImageSizeMismatch(t *testing.T) {
	_, err := DepthImage(make([]float32, 5), 2, 3)
	assert.Error(t, err)

	_, err = DepthImage(nil, 0, 0)
	assert.Error(t, err)
}

func TestSaveDepth(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ext    string
		decode func(io.Reader) (image.Image, error)
	}{
		{"png", FormatPNG, ".png", png.Decode},
		{"default", "", ".png", png.Decode},
		{"bmp", FormatBMP, ".bmp", bmp.Decode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "dumps")

			path, err := SaveDepth(dir, "shadow", tt.format, []float32{0.25, 0.75, 1, 0}, 2, 2)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(filepath.Base(path), "shadow_"))
			assert.Equal(t, tt.ext, filepath.Ext(path))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			img, err := tt.decode(f)
			require.NoError(t, err)
			assert.Equal(t, 2, img.Bounds().Dx())
			assert.Equal(t, 2, img.Bounds().Dy())
		})
	}
}

func TestSaveDepthUnknownFormat(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveDepth(dir, "shadow", "tiff", []float32{0}, 1, 1)
	assert.Error(t, err)
	assert.False(t, ValidFormat("tiff"))
	assert.True(t, ValidFormat(FormatBMP))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
