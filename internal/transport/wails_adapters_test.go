package transport

import (
	"context"
	"testing"

	"kleinimg/internal/compression"
	compressionDomain "kleinimg/internal/domain/compression"
	"kleinimg/internal/services"
)

type stubCompressionService struct {
	lastRequest compressionDomain.CompressionRequest
}

func (s *stubCompressionService) CompressImages(ctx context.Context, request compressionDomain.CompressionRequest) compressionDomain.CompressionResponse {
	s.lastRequest = request
	return compressionDomain.CompressionResponse{Success: true, TotalFiles: len(request.Files)}
}

func (s *stubCompressionService) ProcessFileData(ctx context.Context, fileData []compressionDomain.FileUpload) compressionDomain.CompressionResponse {
	return compressionDomain.CompressionResponse{Success: true, TotalFiles: len(fileData)}
}

func (s *stubCompressionService) CompressUpload(ctx context.Context, upload compressionDomain.FileUpload, options compressionDomain.Options) (*compressionDomain.FileResult, []byte, error) {
	return &compressionDomain.FileResult{OriginalFilename: upload.Name}, nil, nil
}

func TestWailsApp_CompressImages(t *testing.T) {
	stub := &stubCompressionService{}
	app := NewWailsApp(context.Background(), stub, services.NewImageService(nil), nil, nil)

	resp := app.CompressImages(compressionDomain.CompressionRequest{
		Files:   []string{"a.png", "b.png"},
		Options: compressionDomain.Options{Purpose: "banner"},
	})
	if !resp.Success || resp.TotalFiles != 2 {
		t.Errorf("Unexpected response %+v", resp)
	}
	if stub.lastRequest.Purpose != "banner" {
		t.Errorf("Expected purpose to pass through, got %q", stub.lastRequest.Purpose)
	}

	resp = app.ProcessFileData([]compressionDomain.FileUpload{{Name: "a.png"}})
	if resp.TotalFiles != 1 {
		t.Errorf("Expected 1 file, got %d", resp.TotalFiles)
	}
}

func TestWailsApp_GetProfiles(t *testing.T) {
	app := NewWailsApp(context.Background(), &stubCompressionService{}, services.NewImageService(nil), nil, nil)

	profiles := app.GetProfiles()
	if len(profiles) != len(compression.Profiles()) {
		t.Fatalf("Expected %d profiles, got %d", len(compression.Profiles()), len(profiles))
	}
	if profiles[0].Name != compression.ProductProfile.Name || profiles[0].Format != "jpeg" {
		t.Errorf("Unexpected first profile %+v", profiles[0])
	}
}
