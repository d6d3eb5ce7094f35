package container

import (
	"sync"

	"kleinimg/internal/common"
	"kleinimg/internal/compression"
	"kleinimg/internal/config"
	compressionDomain "kleinimg/internal/domain/compression"
	statisticsDomain "kleinimg/internal/domain/statistics"
)

// StatisticsServiceImpl implements the statistics domain service.
// Totals come from the history table; session counters live in memory.
type StatisticsServiceImpl struct {
	history  statisticsDomain.HistoryRepository
	config   *config.Config
	emitter  compressionDomain.EventEmitter
	hasStore bool

	mu      sync.Mutex
	session statisticsDomain.AppStats
}

func (s *StatisticsServiceImpl) UpdateStats(filesCompressed int, dataSaved int64) {
	s.mu.Lock()
	s.session.SessionFilesCompressed += filesCompressed
	s.session.SessionDataSaved += dataSaved
	s.mu.Unlock()

	// Emit stats update
	s.emitter.Emit(common.EventStatsUpdate, s.GetStats())
}

func (s *StatisticsServiceImpl) GetStats() *statisticsDomain.AppStats {
	s.mu.Lock()
	stats := s.session
	s.mu.Unlock()

	totals, err := s.history.Totals()
	if err != nil {
		s.config.Logger.Warn("Failed to load persistent statistics", "error", err)
		return &stats
	}
	stats.TotalFilesCompressed = totals.TotalFiles
	stats.TotalDataSaved = totals.BytesSaved
	return &stats
}

func (s *StatisticsServiceImpl) GetHistory(limit int) ([]statisticsDomain.HistoryEntry, error) {
	return s.history.RecentHistory(limit)
}

func (s *StatisticsServiceImpl) GetAppStatus() map[string]interface{} {
	purposes := make([]string, len(compression.Purposes))
	for i, p := range compression.Purposes {
		purposes[i] = string(p)
	}
	return map[string]interface{}{
		"status":            "running",
		"framework":         "Wails + Preact",
		"app_name":          "KleinIMG",
		"purposes":          purposes,
		"formats":           []string{string(compression.FormatJPEG), string(compression.FormatWebP)},
		"storage_enabled":   s.hasStore,
		"working_directory": s.config.WorkingDir,
	}
}
