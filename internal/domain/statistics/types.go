package statistics

import "time"

// AppStats represents application usage statistics
type AppStats struct {
	TotalFilesCompressed   int64 `json:"total_files_compressed"`
	TotalDataSaved         int64 `json:"total_data_saved"`
	SessionFilesCompressed int   `json:"session_files_compressed"`
	SessionDataSaved       int64 `json:"session_data_saved"`
}

// HistoryEntry is one completed compression
type HistoryEntry struct {
	FileID             string    `json:"file_id"`
	OriginalFilename   string    `json:"original_filename"`
	CompressedFilename string    `json:"compressed_filename"`
	Purpose            string    `json:"purpose"`
	Profile            string    `json:"profile"`
	Format             string    `json:"format"`
	OriginalSize       int64     `json:"original_size"`
	CompressedSize     int64     `json:"compressed_size"`
	CompressionRatio   int       `json:"compression_ratio"`
	Quality            float64   `json:"quality"`
	Attempts           int       `json:"attempts"`
	Width              int       `json:"width"`
	Height             int       `json:"height"`
	StorageURL         string    `json:"storage_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Totals are the persistent aggregate over all history
type Totals struct {
	TotalFiles int64
	BytesSaved int64
}

// HistoryRepository persists history entries
type HistoryRepository interface {
	Record(entry HistoryEntry) error
	RecentHistory(limit int) ([]HistoryEntry, error)
	Totals() (Totals, error)
}

// Service defines the interface for statistics operations
type Service interface {
	UpdateStats(filesCompressed int, dataSaved int64)
	GetStats() *AppStats
	GetHistory(limit int) ([]HistoryEntry, error)
	GetAppStatus() map[string]interface{}
}
