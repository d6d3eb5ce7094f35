package services

import (
	"fmt"
	"os"
	"path/filepath"

	"kleinimg/internal/compression"
	"kleinimg/internal/models"

	"gorm.io/gorm"
)

// PreferencesService handles user preferences operations
type PreferencesService struct {
	db *gorm.DB
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(db *gorm.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

// GetPreferences gets the current user preferences
func (s *PreferencesService) GetPreferences() (*models.UserPreferencesData, error) {
	prefs, err := models.GetOrCreatePreferences(s.db)
	if err != nil {
		return nil, err
	}

	prefsData := prefs.GetPreferences()
	return &prefsData, nil
}

// UpdatePreferences updates user preferences.
// Unknown keys and values of the wrong type are ignored; an unknown purpose
// or format is rejected and nothing is saved.
func (s *PreferencesService) UpdatePreferences(data map[string]interface{}) error {
	prefs, err := models.GetOrCreatePreferences(s.db)
	if err != nil {
		return err
	}

	currentPrefs := prefs.GetPreferences()

	if val, ok := data["default_purpose"]; ok {
		if purpose, ok := val.(string); ok {
			parsed, err := compression.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			currentPrefs.DefaultPurpose = string(parsed)
		}
	}

	if val, ok := data["output_format"]; ok {
		if format, ok := val.(string); ok {
			parsed, err := compression.ParseFormat(format)
			if err != nil {
				return err
			}
			currentPrefs.OutputFormat = string(parsed)
		}
	}

	if val, ok := data["default_download_folder"]; ok {
		if folder, ok := val.(string); ok {
			currentPrefs.DefaultDownloadFolder = folder
		}
	}

	if val, ok := data["auto_download_enabled"]; ok {
		if enabled, ok := val.(bool); ok {
			currentPrefs.AutoDownloadEnabled = enabled
		}
	}

	if val, ok := data["publish_to_storage"]; ok {
		if publish, ok := val.(bool); ok {
			currentPrefs.PublishToStorage = publish
		}
	}

	if val, ok := data["advanced_options_expanded"]; ok {
		if expanded, ok := val.(bool); ok {
			currentPrefs.AdvancedOptionsExpanded = expanded
		}
	}

	if err := prefs.SetPreferences(currentPrefs); err != nil {
		return err
	}

	return s.db.Save(prefs).Error
}

// GetDownloadFolder returns the configured download folder, or ~/Downloads
func (s *PreferencesService) GetDownloadFolder() (string, error) {
	prefs, err := s.GetPreferences()
	if err != nil {
		return "", err
	}
	if prefs.DefaultDownloadFolder != "" {
		return prefs.DefaultDownloadFolder, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}
