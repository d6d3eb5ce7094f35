package transport

// Dialog interface for system dialogs
type DialogHandler interface {
	OpenFileDialog() ([]string, error)
	OpenDirectoryDialog() (string, error)
	ShowSaveDialog(filename string) (string, error)
	OpenFile(filePath string) error
}

// ProfileInfo describes a compression profile for the frontend
type ProfileInfo struct {
	Name           string  `json:"name"`
	MaxWidth       int     `json:"max_width"`
	MaxHeight      int     `json:"max_height"`
	InitialQuality float64 `json:"initial_quality"`
	MaxSizeKB      int     `json:"max_size_kb"`
	Format         string  `json:"format"`
}
