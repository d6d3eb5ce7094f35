package compression

import "fmt"

// Format is the encoding of a compressed image
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// Extension returns the file extension used for the format, including the dot
func (f Format) Extension() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".jpg"
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/jpeg"
}

// ParseFormat maps user input to a Format. An empty string selects JPEG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "jpeg", "jpg", "image/jpeg":
		return FormatJPEG, nil
	case "webp", "image/webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, s)
	}
}

const (
	// QualityFloor is the lowest quality the search will encode at
	QualityFloor = 0.1
	// QualityStep is subtracted from the quality after each oversized attempt
	QualityStep = 0.2
	// MaxAttempts caps the number of encodes per call
	MaxAttempts = 5
	// MaxSourcePixels caps the decoded width times height of a source image
	MaxSourcePixels = 100_000_000
)

// Profile bundles the resize, quality and size budget parameters for one image purpose
type Profile struct {
	Name           string  `json:"name"`
	MaxWidth       int     `json:"max_width"`
	MaxHeight      int     `json:"max_height"`
	InitialQuality float64 `json:"initial_quality"`
	MaxSizeKB      int     `json:"max_size_kb"`
	Format         Format  `json:"format"`
}

// MaxSizeBytes returns the size budget in bytes
func (p Profile) MaxSizeBytes() int64 {
	return int64(p.MaxSizeKB) * 1024
}

// WithFormat returns a copy of the profile encoding to f
func (p Profile) WithFormat(f Format) Profile {
	p.Format = f
	return p
}

// Validate rejects profiles the compressor cannot honour
func (p Profile) Validate() error {
	if p.MaxWidth <= 0 || p.MaxHeight <= 0 {
		return fmt.Errorf("profile %q: max dimensions must be positive, got %dx%d", p.Name, p.MaxWidth, p.MaxHeight)
	}
	if p.InitialQuality <= 0 || p.InitialQuality > 1 {
		return fmt.Errorf("profile %q: initial quality must be in (0, 1], got %v", p.Name, p.InitialQuality)
	}
	if p.MaxSizeKB <= 0 {
		return fmt.Errorf("profile %q: size budget must be positive, got %d", p.Name, p.MaxSizeKB)
	}
	if _, err := ParseFormat(string(p.Format)); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// SourceImage is an uploaded image before compression
type SourceImage struct {
	Name string
	Data []byte
	// Size is the declared byte size. Zero means len(Data).
	Size int64
}

func (s SourceImage) size() int64 {
	if s.Size > 0 {
		return s.Size
	}
	return int64(len(s.Data))
}

// Candidate is the output of one encode attempt
type Candidate struct {
	Data    []byte
	Quality float64
}

// File is an encoded image ready to be persisted by the caller
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Result is the accepted candidate plus derived metrics
type Result struct {
	File File `json:"file"`
	// URL is a local preview reference for the encoded file
	URL              string    `json:"url"`
	Profile          Profile   `json:"profile"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Quality          float64   `json:"quality"`
	Attempts         int       `json:"attempts"`
	Qualities        []float64 `json:"qualities"`
	OriginalSize     int64     `json:"original_size"`
	CompressedSize   int64     `json:"compressed_size"`
	CompressionRatio int       `json:"compression_ratio"`
}
