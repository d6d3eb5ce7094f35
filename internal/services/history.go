package services

import (
	"kleinimg/internal/models"

	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

// HistoryTotals aggregates every recorded compression
type HistoryTotals struct {
	TotalFiles      int64 `json:"total_files"`
	OriginalBytes   int64 `json:"original_bytes"`
	CompressedBytes int64 `json:"compressed_bytes"`
	BytesSaved      int64 `json:"bytes_saved"`
}

// HistoryService persists compression records
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a new history service
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record stores one compression result
func (s *HistoryService) Record(record *models.CompressionRecord) error {
	return s.db.Create(record).Error
}

// RecentHistory returns the newest records first. A non-positive limit uses the default.
func (s *HistoryService) RecentHistory(limit int) ([]models.CompressionRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var records []models.CompressionRecord
	err := s.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&records).Error
	return records, err
}

// Totals sums sizes across every record
func (s *HistoryService) Totals() (HistoryTotals, error) {
	var totals HistoryTotals
	err := s.db.Model(&models.CompressionRecord{}).
		Select("COUNT(*) AS total_files, COALESCE(SUM(original_size), 0) AS original_bytes, COALESCE(SUM(compressed_size), 0) AS compressed_bytes").
		Scan(&totals).Error
	if err != nil {
		return HistoryTotals{}, err
	}
	totals.BytesSaved = totals.OriginalBytes - totals.CompressedBytes
	return totals, nil
}
