package models

import "time"

// CompressionRecord is one successfully compressed image
type CompressionRecord struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	FileID             string    `gorm:"size:36;uniqueIndex" json:"file_id"`
	OriginalFilename   string    `json:"original_filename"`
	CompressedFilename string    `json:"compressed_filename"`
	Purpose            string    `gorm:"size:16;index" json:"purpose"`
	Profile            string    `gorm:"size:32" json:"profile"`
	Format             string    `gorm:"size:8" json:"format"`
	OriginalSize       int64     `json:"original_size"`
	CompressedSize     int64     `json:"compressed_size"`
	CompressionRatio   int       `json:"compression_ratio"`
	Quality            float64   `json:"quality"`
	Attempts           int       `json:"attempts"`
	Width              int       `json:"width"`
	Height             int       `json:"height"`
	StorageURL         string    `json:"storage_url,omitempty"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
}

// BytesSaved is negative when re-encoding grew the file
func (r CompressionRecord) BytesSaved() int64 {
	return r.OriginalSize - r.CompressedSize
}
