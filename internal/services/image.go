package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"event-ticketing-storefront/internal/backend"
)

const (
	// MaxEventImageSize is the largest upload accepted before decoding
	MaxEventImageSize = 10 << 20

	eventImageMaxWidth  = 1600
	eventImageMaxHeight = 900
	eventImageQuality   = 85
)

// ErrImageTooLarge is returned for uploads over MaxEventImageSize
var ErrImageTooLarge = errors.New("image exceeds the 10 MiB limit")

// PreparedImage is an event image ready to upload
type PreparedImage struct {
	Filename string
	Width    int
	Height   int
	Data     []byte
}

// Upload wraps the image for CreateEvent
func (p *PreparedImage) Upload() *backend.EventImage {
	return &backend.EventImage{Filename: p.Filename, Content: bytes.NewReader(p.Data)}
}

// PrepareEventImage decodes an uploaded image, applies its EXIF orientation,
// shrinks it to fit 1600x900 and re-encodes it as JPEG
func PrepareEventImage(r io.Reader, filename string) (*PreparedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxEventImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxEventImageSize {
		return nil, ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Fit never enlarges
	img = imaging.Fit(img, eventImageMaxWidth, eventImageMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(eventImageQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &PreparedImage{
		Filename: jpegName(filename),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Data:     buf.Bytes(),
	}, nil
}

func jpegName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "event"
	}
	return base + ".jpg"
}
