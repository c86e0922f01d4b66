// Package capture produces JPEG snapshots for ingredient detection, either
// from a webcam, from a file picked by the user, or from a watched drop
// directory.
package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Snapshot is one captured frame, always JPEG-encoded, with a trace ID that
// follows it through detection logs.
type Snapshot struct {
	ID     string
	Source string // device path or file name
	Data   []byte
	Width  int
	Height int
}

// DataURL encodes the frame the way the detection backend expects it.
func (s *Snapshot) DataURL() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(s.Data)
}

// Decode returns the frame as an image for annotation.
func (s *Snapshot) Decode() (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(s.Data))
	if err != nil {
		return nil, fmt.Errorf("capture: decode snapshot %s: %w", s.ID, err)
	}
	return img, nil
}

// FrameSource is anything that can hand over a single frame on demand.
type FrameSource interface {
	Grab() (*Snapshot, error)
	Stop()
}

// FromFile loads an image file as a snapshot. PNG input is re-encoded to
// JPEG so every snapshot leaves here in the same format.
func FromFile(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: read %s: %w", path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("capture: decode %s: %w", path, err)
	}

	data := raw
	if format != "jpeg" {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("capture: re-encode %s: %w", path, err)
		}
		data = buf.Bytes()
	}

	bounds := img.Bounds()
	return &Snapshot{
		ID:     uuid.NewString(),
		Source: filepath.Base(path),
		Data:   data,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
