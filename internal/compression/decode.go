package compression

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errEmptyImage = errors.New("empty image data")

// Decode parses src into an image, applying any EXIF orientation.
// Every failure is a *DecodeError.
func Decode(src SourceImage) (image.Image, error) {
	if len(src.Data) == 0 {
		return nil, &DecodeError{Name: src.Name, Err: errEmptyImage}
	}

	mtype := mimetype.Detect(src.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, &DecodeError{Name: src.Name, ContentType: mtype.String(), Err: errors.New("not an image")}
	}

	// The header is enough to reject images too large to hold in memory
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return nil, &DecodeError{Name: src.Name, ContentType: mtype.String(), Err: err}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, &DecodeError{
			Name:        src.Name,
			ContentType: mtype.String(),
			Err:         fmt.Errorf("%dx%d exceeds the %d pixel limit", cfg.Width, cfg.Height, MaxSourcePixels),
		}
	}

	img, err := imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Name: src.Name, ContentType: mtype.String(), Err: err}
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Name: src.Name, ContentType: mtype.String(), Err: errEmptyImage}
	}
	return img, nil
}

// IsImage reports whether data sniffs as an image type
func IsImage(data []byte) bool {
	return strings.HasPrefix(mimetype.Detect(data).String(), "image/")
}
