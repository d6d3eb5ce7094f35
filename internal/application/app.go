package application

import (
	"context"
	"errors"

	"kleinimg/internal/config"
	"kleinimg/internal/container"
	"kleinimg/internal/database"
	compressionDomain "kleinimg/internal/domain/compression"
	preferencesDomain "kleinimg/internal/domain/preferences"
	statisticsDomain "kleinimg/internal/domain/statistics"
	"kleinimg/internal/metrics"
	"kleinimg/internal/storage"
	"kleinimg/internal/transport"
)

const inMemoryDatabase = ":memory:"

var errNotReady = errors.New("application failed to start, check the log for details")

type App struct {
	ctx       context.Context
	container *container.Container
	wailsApp  *transport.WailsApp
	config    *config.Config
}

func NewApp() *App {
	return &App{}
}

func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	// Initialize configuration
	cfg := config.New()
	a.config = cfg

	// Initialize database, falling back to memory so the UI keeps working
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		cfg.Logger.Error("Failed to initialize database, history will not persist", "error", err)
		db, err = database.Initialize(inMemoryDatabase)
		if err != nil {
			cfg.Logger.Error("Failed to initialize in-memory database", "error", err)
			return
		}
	}

	opts := []container.Option{
		container.WithEmitter(transport.NewWailsEmitter(ctx)),
		container.WithMetrics(metrics.New()),
	}

	// Object storage is optional; compression still works without it
	store, err := storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		cfg.Logger.Warn("Object storage unavailable", "error", err)
	} else {
		opts = append(opts, container.WithStore(store))
	}

	// Initialize dependency container
	a.container = container.New(cfg, db, opts...)

	// Initialize transport layer
	a.wailsApp = transport.NewWailsApp(
		ctx,
		a.container.GetCompressionService(),
		a.container.GetImageProcessor(),
		a.container.GetPreferencesRepository(),
		a.container.GetStatisticsService(),
	)

	cfg.Logger.Info("Wails app initialized successfully")
	cfg.Logger.Info("Application configuration",
		"working_directory", cfg.WorkingDir,
		"database_path", cfg.DatabasePath,
		"storage_dir", cfg.StorageDir,
		"storage_enabled", store != nil)
}

func (a *App) OnShutdown(ctx context.Context) {
	if a.container == nil {
		return
	}
	if err := a.container.Close(); err != nil {
		a.config.Logger.Warn("Failed to close object storage", "error", err)
	}
}

func (a *App) ready() bool {
	return a.wailsApp != nil
}

func (a *App) CompressImages(request compressionDomain.CompressionRequest) compressionDomain.CompressionResponse {
	if !a.ready() {
		return compressionDomain.CompressionResponse{Error: errNotReady.Error()}
	}
	return a.wailsApp.CompressImages(request)
}

func (a *App) ProcessFileData(fileData []compressionDomain.FileUpload) compressionDomain.CompressionResponse {
	if !a.ready() {
		return compressionDomain.CompressionResponse{Error: errNotReady.Error()}
	}
	return a.wailsApp.ProcessFileData(fileData)
}

func (a *App) GetProfiles() []transport.ProfileInfo {
	if !a.ready() {
		return nil
	}
	return a.wailsApp.GetProfiles()
}

func (a *App) GetPreferences() (*preferencesDomain.UserPreferencesData, error) {
	if !a.ready() {
		return nil, errNotReady
	}
	return a.wailsApp.GetPreferences()
}

func (a *App) UpdatePreferences(data map[string]interface{}) error {
	if !a.ready() {
		return errNotReady
	}
	return a.wailsApp.UpdatePreferences(data)
}

func (a *App) OpenFileDialog() ([]string, error) {
	if !a.ready() {
		return nil, errNotReady
	}
	return a.wailsApp.OpenFileDialog()
}

func (a *App) OpenDirectoryDialog() (string, error) {
	if !a.ready() {
		return "", errNotReady
	}
	return a.wailsApp.OpenDirectoryDialog()
}

func (a *App) ShowSaveDialog(filename string) (string, error) {
	if !a.ready() {
		return "", errNotReady
	}
	return a.wailsApp.ShowSaveDialog(filename)
}

func (a *App) OpenFile(filePath string) error {
	if !a.ready() {
		return errNotReady
	}
	return a.wailsApp.OpenFile(filePath)
}

func (a *App) GetAppStatus() map[string]interface{} {
	if !a.ready() {
		return map[string]interface{}{"error": errNotReady.Error()}
	}
	return a.wailsApp.GetAppStatus()
}

func (a *App) GetStats() *statisticsDomain.AppStats {
	if !a.ready() {
		return &statisticsDomain.AppStats{}
	}
	return a.wailsApp.GetStats()
}

func (a *App) GetHistory(limit int) ([]statisticsDomain.HistoryEntry, error) {
	if !a.ready() {
		return nil, errNotReady
	}
	return a.wailsApp.GetHistory(limit)
}
