package transport

import (
	"context"
	"path/filepath"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// imageFilters are the sources the decoder accepts
var imageFilters = []wailsruntime.FileFilter{
	{
		DisplayName: "Images (*.jpg;*.jpeg;*.png;*.gif;*.bmp;*.tiff;*.webp)",
		Pattern:     "*.jpg;*.jpeg;*.png;*.gif;*.bmp;*.tif;*.tiff;*.webp",
	},
}

type dialogsHandler struct {
	ctx context.Context
}

func NewDialogsHandler(ctx context.Context) DialogHandler {
	return &dialogsHandler{
		ctx: ctx,
	}
}

func (h *dialogsHandler) OpenFileDialog() ([]string, error) {
	selection, err := wailsruntime.OpenMultipleFilesDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select images to compress",
		Filters: imageFilters,
	})

	if err != nil {
		return nil, err
	}

	return selection, nil
}

func (h *dialogsHandler) OpenDirectoryDialog() (string, error) {
	selection, err := wailsruntime.OpenDirectoryDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title: "Select download folder",
	})

	if err != nil {
		return "", err
	}

	return selection, nil
}

func (h *dialogsHandler) ShowSaveDialog(filename string) (string, error) {
	selection, err := wailsruntime.SaveFileDialog(h.ctx, wailsruntime.SaveDialogOptions{
		Title:           "Save compressed image",
		DefaultFilename: filename,
		Filters:         saveFilters(filename),
	})

	if err != nil {
		return "", err
	}

	return selection, nil
}

func (h *dialogsHandler) OpenFile(filePath string) error {
	wailsruntime.BrowserOpenURL(h.ctx, "file://"+filePath)
	return nil
}

// saveFilters offers only the extension the compressed file already has
func saveFilters(filename string) []wailsruntime.FileFilter {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".webp":
		return []wailsruntime.FileFilter{{DisplayName: "WebP Images (*.webp)", Pattern: "*.webp"}}
	case ".jpg", ".jpeg":
		return []wailsruntime.FileFilter{{DisplayName: "JPEG Images (*.jpg)", Pattern: "*.jpg;*.jpeg"}}
	default:
		return imageFilters
	}
}
