package oracle

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrInvalidSnapshot = errors.New("invalid canvas snapshot")

// Snapshot is a decoded canvas image.
type Snapshot struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// ParseSnapshot accepts raw base64 or a data URL and sniffs the image format.
func ParseSnapshot(s string) (*Snapshot, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("%w: data URL without payload", ErrInvalidSnapshot)
		}
		payload = rest
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSnapshot)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return DecodeSnapshot(data)
}

// DecodeSnapshot wraps raw image bytes.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &Snapshot{
		Data:     data,
		MIMEType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

func (s *Snapshot) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Data)
}

func (s *Snapshot) DataURL() string {
	return "data:" + s.MIMEType + ";base64," + s.Base64()
}
