package services

import "kleinimg/internal/compression"

// ImageService handles image compression operations
type ImageService struct {
	compressor *compression.Compressor
}

// NewImageService creates a new image service
func NewImageService(compressor *compression.Compressor) *ImageService {
	if compressor == nil {
		compressor = compression.NewCompressor()
	}
	return &ImageService{compressor: compressor}
}

// CompressData compresses an in-memory image for the given purpose and format.
// Empty purpose and format fall back to quick and jpeg.
func (s *ImageService) CompressData(name string, data []byte, purpose, format string) (*compression.Result, error) {
	p, err := compression.ParsePurpose(purpose)
	if err != nil {
		return nil, err
	}
	f, err := compression.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	src := compression.SourceImage{Name: name, Data: data, Size: int64(len(data))}
	return s.compressor.CompressFor(src, p, f)
}

// Profiles returns every fixed profile
func (s *ImageService) Profiles() []compression.Profile {
	return compression.Profiles()
}
