package compression

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Compressor re-encodes images to fit a profile's dimensions and size budget.
// It holds no mutable state and is safe for concurrent use.
type Compressor struct {
	encoders map[Format]Encoder
}

// NewCompressor creates a compressor with the JPEG and WebP encoders
func NewCompressor() *Compressor {
	return &Compressor{encoders: defaultEncoders()}
}

// WithEncoder returns a copy of c that uses enc for format f
func (c *Compressor) WithEncoder(f Format, enc Encoder) *Compressor {
	encoders := make(map[Format]Encoder, len(c.encoders)+1)
	for k, v := range c.encoders {
		encoders[k] = v
	}
	encoders[f] = enc
	return &Compressor{encoders: encoders}
}

// Compress decodes src, resizes it once into the profile box and searches
// downward in quality until the output fits the size budget, the quality
// floor is reached, or MaxAttempts encodes have run.
func (c *Compressor) Compress(src SourceImage, p Profile) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	// Validate accepted it, so aliases like "jpg" map to a registered encoder
	p.Format, _ = ParseFormat(string(p.Format))
	enc, ok := c.encoders[p.Format]
	if !ok {
		return nil, &EncodeError{Name: src.Name, Format: p.Format, Err: fmt.Errorf("no encoder for %s", p.Format)}
	}

	img, err := Decode(src)
	if err != nil {
		return nil, err
	}

	canvas := resize(img, p)
	if p.Format == FormatJPEG && !canvas.Opaque() {
		canvas = flatten(canvas)
	}

	var (
		best      *Candidate
		qualities []float64
		lastErr   error
		budget    = p.MaxSizeBytes()
		quality   = p.InitialQuality
	)

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		qualities = append(qualities, quality)

		var buf bytes.Buffer
		if err := enc.Encode(&buf, canvas, quality); err != nil {
			lastErr = err
		} else if buf.Len() > 0 {
			cand := &Candidate{Data: buf.Bytes(), Quality: quality}
			if best == nil || len(cand.Data) <= len(best.Data) {
				best = cand
			}
			if int64(buf.Len()) <= budget {
				break
			}
		} else {
			lastErr = errors.New("encoder produced no data")
		}

		if quality <= QualityFloor {
			break
		}
		quality = nextQuality(quality)
	}

	if best == nil {
		return nil, &EncodeError{Name: src.Name, Format: p.Format, Qualities: qualities, Err: lastErr}
	}

	file := File{
		Name:        OutputFilename(src.Name, p.Format),
		ContentType: p.Format.ContentType(),
		Data:        best.Data,
	}
	originalSize := src.size()
	compressedSize := int64(len(best.Data))

	return &Result{
		File:             file,
		URL:              PreviewURL(file),
		Profile:          p,
		Width:            canvas.Bounds().Dx(),
		Height:           canvas.Bounds().Dy(),
		Quality:          best.Quality,
		Attempts:         len(qualities),
		Qualities:        qualities,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		CompressionRatio: Ratio(originalSize, compressedSize),
	}, nil
}

// CompressProduct compresses with the product profile
func (c *Compressor) CompressProduct(src SourceImage) (*Result, error) {
	return c.Compress(src, ProductProfile)
}

// CompressBanner compresses with the banner profile
func (c *Compressor) CompressBanner(src SourceImage) (*Result, error) {
	return c.Compress(src, BannerProfile)
}

// CompressQuick picks a profile from the source byte size
func (c *Compressor) CompressQuick(src SourceImage) (*Result, error) {
	return c.Compress(src, QuickProfile(src.size()))
}

// CompressFor resolves the profile from purpose and encodes as format
func (c *Compressor) CompressFor(src SourceImage, purpose Purpose, format Format) (*Result, error) {
	p := ProfileFor(purpose, src.size())
	if format != "" {
		p = p.WithFormat(format)
	}
	return c.Compress(src, p)
}

// nextQuality steps down by QualityStep, clamped at QualityFloor.
// Values are kept to two decimals so the sequence stays exact.
func nextQuality(q float64) float64 {
	next := math.Round((q-QualityStep)*100) / 100
	return math.Max(QualityFloor, next)
}

// Ratio returns the percentage saved, rounded. Negative when the output grew.
func Ratio(originalSize, compressedSize int64) int {
	if originalSize <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(compressedSize)/float64(originalSize)) * 100))
}

// OutputFilename swaps the extension of name for the one matching format
func OutputFilename(name string, format Format) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || name == "" {
		base = "image"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "image"
	}
	return base + format.Extension()
}

// PreviewURL returns a data URL for displaying f without writing it anywhere
func PreviewURL(f File) string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

var defaultCompressor = NewCompressor()

// Compress runs the shared default compressor
func Compress(src SourceImage, p Profile) (*Result, error) {
	return defaultCompressor.Compress(src, p)
}

// CompressProduct runs the product profile on the default compressor
func CompressProduct(src SourceImage) (*Result, error) {
	return defaultCompressor.CompressProduct(src)
}

// CompressBanner runs the banner profile on the default compressor
func CompressBanner(src SourceImage) (*Result, error) {
	return defaultCompressor.CompressBanner(src)
}

// CompressQuick runs the size-tiered profile on the default compressor
func CompressQuick(src SourceImage) (*Result, error) {
	return defaultCompressor.CompressQuick(src)
}
