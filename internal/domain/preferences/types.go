package preferences

type Repository interface {
	GetPreferences() (*UserPreferencesData, error)
	UpdatePreferences(data map[string]any) error
	GetDownloadFolder() (string, error)
}

type UserPreferencesData struct {
	DefaultDownloadFolder   string `json:"default_download_folder"`
	DefaultPurpose          string `json:"default_purpose"`
	OutputFormat            string `json:"output_format"`
	AutoDownloadEnabled     bool   `json:"auto_download_enabled"`
	PublishToStorage        bool   `json:"publish_to_storage"`
	AdvancedOptionsExpanded bool   `json:"advanced_options_expanded"`
}

type Service interface {
	GetPreferences() (*UserPreferencesData, error)
	UpdatePreferences(data map[string]any) error
}
