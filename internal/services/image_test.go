package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestPNG draws a two-tone image so the encoder has real content
func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{R: 200, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 200, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareEventImage_Downscales(t *testing.T) {
	prepared, err := PrepareEventImage(bytes.NewReader(createTestPNG(t, 3200, 1200)), "poster.png")
	require.NoError(t, err)

	assert.Equal(t, "poster.jpg", prepared.Filename)
	assert.Equal(t, 1600, prepared.Width)
	assert.Equal(t, 600, prepared.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(prepared.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1600, cfg.Width)
}

func TestPrepareEventImage_KeepsSmallImages(t *testing.T) {
	prepared, err := PrepareEventImage(bytes.NewReader(createTestPNG(t, 400, 300)), "dir/small")
	require.NoError(t, err)

	assert.Equal(t, "small.jpg", prepared.Filename)
	assert.Equal(t, 400, prepared.Width)
	assert.Equal(t, 300, prepared.Height)

	upload := prepared.Upload()
	data, err := io.ReadAll(upload.Content)
	require.NoError(t, err)
	assert.Equal(t, prepared.Data, data)
}

func TestPrepareEventImage_Rejects(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		_, err := PrepareEventImage(io.LimitReader(zeroReader{}, MaxEventImageSize+10), "big.jpg")
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := PrepareEventImage(strings.NewReader("definitely not an image"), "notes.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode image")
	})
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
