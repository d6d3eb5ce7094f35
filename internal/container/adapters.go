package container

import (
	preferencesDomain "kleinimg/internal/domain/preferences"
	statisticsDomain "kleinimg/internal/domain/statistics"
	"kleinimg/internal/models"
	"kleinimg/internal/services"
)

// PreferencesRepositoryAdapter adapts services.PreferencesService to preferencesDomain.Repository
type PreferencesRepositoryAdapter struct {
	service *services.PreferencesService
}

func (a *PreferencesRepositoryAdapter) GetPreferences() (*preferencesDomain.UserPreferencesData, error) {
	prefs, err := a.service.GetPreferences()
	if err != nil {
		return nil, err
	}

	// Convert service model to domain model
	return &preferencesDomain.UserPreferencesData{
		DefaultDownloadFolder:   prefs.DefaultDownloadFolder,
		DefaultPurpose:          prefs.DefaultPurpose,
		OutputFormat:            prefs.OutputFormat,
		AutoDownloadEnabled:     prefs.AutoDownloadEnabled,
		PublishToStorage:        prefs.PublishToStorage,
		AdvancedOptionsExpanded: prefs.AdvancedOptionsExpanded,
	}, nil
}

func (a *PreferencesRepositoryAdapter) UpdatePreferences(data map[string]any) error {
	return a.service.UpdatePreferences(data)
}

func (a *PreferencesRepositoryAdapter) GetDownloadFolder() (string, error) {
	return a.service.GetDownloadFolder()
}

// HistoryRepositoryAdapter adapts services.HistoryService to statisticsDomain.HistoryRepository
type HistoryRepositoryAdapter struct {
	service *services.HistoryService
}

func (a *HistoryRepositoryAdapter) Record(entry statisticsDomain.HistoryEntry) error {
	return a.service.Record(&models.CompressionRecord{
		FileID:             entry.FileID,
		OriginalFilename:   entry.OriginalFilename,
		CompressedFilename: entry.CompressedFilename,
		Purpose:            entry.Purpose,
		Profile:            entry.Profile,
		Format:             entry.Format,
		OriginalSize:       entry.OriginalSize,
		CompressedSize:     entry.CompressedSize,
		CompressionRatio:   entry.CompressionRatio,
		Quality:            entry.Quality,
		Attempts:           entry.Attempts,
		Width:              entry.Width,
		Height:             entry.Height,
		StorageURL:         entry.StorageURL,
		CreatedAt:          entry.CreatedAt,
	})
}

func (a *HistoryRepositoryAdapter) RecentHistory(limit int) ([]statisticsDomain.HistoryEntry, error) {
	records, err := a.service.RecentHistory(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]statisticsDomain.HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = statisticsDomain.HistoryEntry{
			FileID:             r.FileID,
			OriginalFilename:   r.OriginalFilename,
			CompressedFilename: r.CompressedFilename,
			Purpose:            r.Purpose,
			Profile:            r.Profile,
			Format:             r.Format,
			OriginalSize:       r.OriginalSize,
			CompressedSize:     r.CompressedSize,
			CompressionRatio:   r.CompressionRatio,
			Quality:            r.Quality,
			Attempts:           r.Attempts,
			Width:              r.Width,
			Height:             r.Height,
			StorageURL:         r.StorageURL,
			CreatedAt:          r.CreatedAt,
		}
	}
	return entries, nil
}

func (a *HistoryRepositoryAdapter) Totals() (statisticsDomain.Totals, error) {
	totals, err := a.service.Totals()
	if err != nil {
		return statisticsDomain.Totals{}, err
	}
	return statisticsDomain.Totals{
		TotalFiles: totals.TotalFiles,
		BytesSaved: totals.BytesSaved,
	}, nil
}

// NopEmitter drops every event
type NopEmitter struct{}

func (NopEmitter) Emit(string, any) {}
