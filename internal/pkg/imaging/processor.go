package imaging

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	// AvatarSize is the square pixel size avatars are normalized to.
	AvatarSize = 256

	// MaxSourceBytes caps uploaded avatar file size (5 MiB).
	MaxSourceBytes = 5 << 20
)

// Processor resizes and re-encodes avatar images.
type Processor struct {
	quality int
}

// NewProcessor creates an avatar processor with the given JPEG quality.
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// ProcessAvatar decodes an uploaded image, crops it to a centered
// square, scales it to AvatarSize and re-encodes it as JPEG.
func (p *Processor) ProcessAvatar(r io.Reader) ([]byte, string, error) {
	src, err := imaging.Decode(io.LimitReader(r, MaxSourceBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode avatar: %w", err)
	}

	thumb := imaging.Fill(src, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, "", fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
