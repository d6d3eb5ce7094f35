package transport

import (
	"context"

	compressionDomain "kleinimg/internal/domain/compression"
	preferencesDomain "kleinimg/internal/domain/preferences"
	statisticsDomain "kleinimg/internal/domain/statistics"
)

type WailsApp struct {
	ctx                context.Context
	compressionService compressionDomain.Service
	imageProcessor     compressionDomain.ImageProcessor
	preferencesRepo    preferencesDomain.Repository
	statisticsService  statisticsDomain.Service
	dialogsHandler     DialogHandler
}

func NewWailsApp(
	ctx context.Context,
	compressionService compressionDomain.Service,
	imageProcessor compressionDomain.ImageProcessor,
	preferencesRepo preferencesDomain.Repository,
	statisticsService statisticsDomain.Service,
) *WailsApp {
	return &WailsApp{
		ctx:                ctx,
		compressionService: compressionService,
		imageProcessor:     imageProcessor,
		preferencesRepo:    preferencesRepo,
		statisticsService:  statisticsService,
		dialogsHandler:     NewDialogsHandler(ctx),
	}
}

func (a *WailsApp) CompressImages(request compressionDomain.CompressionRequest) compressionDomain.CompressionResponse {
	return a.compressionService.CompressImages(a.ctx, request)
}

func (a *WailsApp) ProcessFileData(fileData []compressionDomain.FileUpload) compressionDomain.CompressionResponse {
	return a.compressionService.ProcessFileData(a.ctx, fileData)
}

func (a *WailsApp) GetProfiles() []ProfileInfo {
	profiles := a.imageProcessor.Profiles()
	infos := make([]ProfileInfo, len(profiles))
	for i, p := range profiles {
		infos[i] = ProfileInfo{
			Name:           p.Name,
			MaxWidth:       p.MaxWidth,
			MaxHeight:      p.MaxHeight,
			InitialQuality: p.InitialQuality,
			MaxSizeKB:      p.MaxSizeKB,
			Format:         string(p.Format),
		}
	}
	return infos
}

func (a *WailsApp) GetPreferences() (*preferencesDomain.UserPreferencesData, error) {
	return a.preferencesRepo.GetPreferences()
}

func (a *WailsApp) UpdatePreferences(data map[string]interface{}) error {
	return a.preferencesRepo.UpdatePreferences(data)
}

func (a *WailsApp) OpenFileDialog() ([]string, error) {
	return a.dialogsHandler.OpenFileDialog()
}

func (a *WailsApp) OpenDirectoryDialog() (string, error) {
	return a.dialogsHandler.OpenDirectoryDialog()
}

func (a *WailsApp) ShowSaveDialog(filename string) (string, error) {
	return a.dialogsHandler.ShowSaveDialog(filename)
}

func (a *WailsApp) OpenFile(filePath string) error {
	return a.dialogsHandler.OpenFile(filePath)
}

func (a *WailsApp) GetAppStatus() map[string]interface{} {
	return a.statisticsService.GetAppStatus()
}

func (a *WailsApp) GetStats() *statisticsDomain.AppStats {
	return a.statisticsService.GetStats()
}

func (a *WailsApp) GetHistory(limit int) ([]statisticsDomain.HistoryEntry, error) {
	return a.statisticsService.GetHistory(limit)
}
