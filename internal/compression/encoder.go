package compression

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Encoder writes img at a quality in the 0-1 range
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality float64) error
}

// EncoderFunc adapts a function to Encoder
type EncoderFunc func(w io.Writer, img image.Image, quality float64) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image, quality float64) error {
	return f(w, img, quality)
}

type jpegEncoder struct{}

func (jpegEncoder) Encode(w io.Writer, img image.Image, quality float64) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality(quality)))
}

// jpegQuality maps 0-1 onto the 1-100 scale used by image/jpeg
func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	return min(100, max(1, v))
}

type webpEncoder struct{}

func (webpEncoder) Encode(w io.Writer, img image.Image, quality float64) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality * 100)})
}

func defaultEncoders() map[Format]Encoder {
	return map[Format]Encoder{
		FormatJPEG: jpegEncoder{},
		FormatWebP: webpEncoder{},
	}
}

// flatten composites img over an opaque white canvas
func flatten(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
