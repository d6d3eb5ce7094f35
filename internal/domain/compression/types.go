package compression

// Options controls how a batch is compressed. Empty purpose and format fall
// back to the user's preferences.
type Options struct {
	Purpose        string `json:"purpose"`
	Format         string `json:"format"`
	AutoDownload   bool   `json:"autoDownload"`
	DownloadFolder string `json:"downloadFolder"`
	Publish        bool   `json:"publish"`
}

type CompressionRequest struct {
	Files []string `json:"files"`
	Options
}

type CompressionResponse struct {
	Success                 bool         `json:"success"`
	Files                   []FileResult `json:"files"`
	TotalFiles              int          `json:"total_files"`
	TotalOriginalSize       int64        `json:"total_original_size"`
	TotalCompressedSize     int64        `json:"total_compressed_size"`
	OverallCompressionRatio int          `json:"overall_compression_ratio"`
	Purpose                 string       `json:"purpose"`
	Format                  string       `json:"format"`
	AutoDownload            bool         `json:"auto_download"`
	Error                   string       `json:"error,omitempty"`
}

type FileResult struct {
	FileID             string  `json:"file_id"`
	OriginalFilename   string  `json:"original_filename"`
	CompressedFilename string  `json:"compressed_filename"`
	ContentType        string  `json:"content_type"`
	Purpose            string  `json:"purpose"`
	Profile            string  `json:"profile"`
	OriginalSize       int64   `json:"original_size"`
	CompressedSize     int64   `json:"compressed_size"`
	CompressionRatio   int     `json:"compression_ratio"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	Quality            float64 `json:"quality"`
	Attempts           int     `json:"attempts"`
	TempPath           string  `json:"temp_path"`
	SavedPath          string  `json:"saved_path,omitempty"`
	StorageURL         string  `json:"storage_url,omitempty"`
	PreviewURL         string  `json:"preview_url,omitempty"`
	Status             string  `json:"status"`
	Warning            string  `json:"warning,omitempty"`
	Error              string  `json:"error,omitempty"`
}

// URL is the storage URL when the file was published, otherwise the preview
func (r FileResult) URL() string {
	if r.StorageURL != "" {
		return r.StorageURL
	}
	return r.PreviewURL
}

type FileUpload struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
	Size int64  `json:"size"`
}

type FileProgressUpdate struct {
	FileID   string  `json:"file_id"`
	Filename string  `json:"filename"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	WorkerID int     `json:"worker_id"`
	Error    string  `json:"error,omitempty"`
}

// File status values
const (
	StatusQueued      = "queued"
	StatusCompressing = "compressing"
	StatusCompleted   = "completed"
	StatusError       = "error"
)
