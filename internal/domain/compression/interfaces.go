package compression

import (
	"context"

	core "kleinimg/internal/compression"
)

// ImageProcessor runs the size-reduction core on one image
type ImageProcessor interface {
	CompressData(name string, data []byte, purpose, format string) (*core.Result, error)
	Profiles() []core.Profile
}

// Publisher writes compressed output to object storage and returns its URL
type Publisher interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// EventEmitter delivers progress events to whoever is listening
type EventEmitter interface {
	Emit(event string, data any)
}

type Service interface {
	CompressImages(ctx context.Context, request CompressionRequest) CompressionResponse
	ProcessFileData(ctx context.Context, fileData []FileUpload) CompressionResponse
	CompressUpload(ctx context.Context, upload FileUpload, options Options) (*FileResult, []byte, error)
}
