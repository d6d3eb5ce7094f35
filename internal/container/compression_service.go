package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"kleinimg/internal/common"
	"kleinimg/internal/compression"
	"kleinimg/internal/concurrency"
	"kleinimg/internal/config"
	compressionDomain "kleinimg/internal/domain/compression"
	preferencesDomain "kleinimg/internal/domain/preferences"
	statisticsDomain "kleinimg/internal/domain/statistics"
	"kleinimg/internal/metrics"
)

// CompressionServiceImpl implements the compression domain service
type CompressionServiceImpl struct {
	processor compressionDomain.ImageProcessor
	prefsRepo preferencesDomain.Repository
	history   statisticsDomain.HistoryRepository
	stats     *StatisticsServiceImpl
	publisher compressionDomain.Publisher
	config    *config.Config
	emitter   compressionDomain.EventEmitter
	metrics   *metrics.Metrics
	workers   int
}

// source is one image to compress, read from Path when Data is nil
type source struct {
	Name string
	Path string
	Data []byte
}

// resolvedOptions are Options with preferences and defaults applied
type resolvedOptions struct {
	purpose        compression.Purpose
	format         compression.Format
	autoDownload   bool
	downloadFolder string
	publish        bool
	// keepTemp writes each result under WorkingDir for the desktop flow
	keepTemp bool
}

func (s *CompressionServiceImpl) CompressImages(ctx context.Context, request compressionDomain.CompressionRequest) compressionDomain.CompressionResponse {
	// Validate input
	if len(request.Files) == 0 {
		s.config.Logger.Error("Compression request validation failed", "error", common.ErrNoFilesProvided)
		return compressionDomain.CompressionResponse{
			Success: false,
			Error:   common.ErrNoFilesProvided.Error(),
		}
	}

	sources := make([]source, len(request.Files))
	for i, filePath := range request.Files {
		sources[i] = source{Name: filepath.Base(filePath), Path: filePath}
	}
	return s.compressBatch(ctx, sources, request.Options)
}

func (s *CompressionServiceImpl) ProcessFileData(ctx context.Context, fileData []compressionDomain.FileUpload) compressionDomain.CompressionResponse {
	if len(fileData) == 0 {
		return compressionDomain.CompressionResponse{
			Success: false,
			Error:   common.ErrNoFilesProvided.Error(),
		}
	}

	sources := make([]source, len(fileData))
	for i, file := range fileData {
		sources[i] = source{Name: file.Name, Data: file.Data}
	}

	// Uploads carry no options, so preferences decide everything
	options := compressionDomain.Options{}
	prefs, err := s.prefsRepo.GetPreferences()
	if err == nil && prefs != nil {
		options.AutoDownload = prefs.AutoDownloadEnabled
		options.Publish = prefs.PublishToStorage
	}

	return s.compressBatch(ctx, sources, options)
}

// CompressUpload compresses a single in-memory upload synchronously and
// returns the encoded bytes. Nothing is written under WorkingDir.
// Errors keep their compression types.
func (s *CompressionServiceImpl) CompressUpload(ctx context.Context, upload compressionDomain.FileUpload, options compressionDomain.Options) (*compressionDomain.FileResult, []byte, error) {
	opts, err := s.resolveOptions(options)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fileID := common.GenerateUUID()
	result, data, err := s.processSingleFile(ctx, fileID, source{Name: upload.Name, Data: upload.Data}, opts, 0)
	if err != nil {
		return nil, nil, err
	}
	result.Status = compressionDomain.StatusCompleted
	s.stats.UpdateStats(1, result.OriginalSize-result.CompressedSize)
	return result, data, nil
}

func (s *CompressionServiceImpl) compressBatch(ctx context.Context, sources []source, options compressionDomain.Options) compressionDomain.CompressionResponse {
	opts, err := s.resolveOptions(options)
	if err != nil {
		s.config.Logger.Error("Failed to resolve compression options", "error", err)
		return compressionDomain.CompressionResponse{
			Success: false,
			Error:   err.Error(),
		}
	}
	opts.keepTemp = true

	if removed := common.CleanupOldTempFiles(s.config.WorkingDir, common.TempFileRetention); removed > 0 {
		s.config.Logger.Debug("Removed old temp directories", "count", removed)
	}

	totalFiles := len(sources)
	jobs := make([]concurrency.Job[source], totalFiles)
	for i, src := range sources {
		jobs[i] = concurrency.Job[source]{ID: common.GenerateUUID(), Input: src}

		// Emit initial file status
		s.emitter.Emit(common.EventFileProgress, compressionDomain.FileProgressUpdate{
			FileID:   jobs[i].ID,
			Filename: src.Name,
			Status:   compressionDomain.StatusQueued,
			Progress: 0,
		})
	}

	pool := concurrency.NewWorkerPool[source, compressionDomain.FileResult](s.workers, func(ctx context.Context, workerID int, job concurrency.Job[source]) compressionDomain.FileResult {
		return s.runJob(ctx, workerID, job, opts)
	}).OnResult(func(completed, total int, result compressionDomain.FileResult) {
		// Emit overall progress
		s.emitter.Emit(common.EventCompressionProgress, map[string]any{
			"percent":   float64(completed) / float64(total) * 100,
			"current":   completed,
			"total":     total,
			"completed": completed,
		})
	})

	results := pool.Run(ctx, jobs)

	// Final progress update
	s.emitter.Emit(common.EventCompressionProgress, map[string]any{
		"percent": common.CompletedProgressPercent,
		"current": totalFiles,
		"total":   totalFiles,
		"file":    "Complete",
	})

	var totalOriginalSize, totalCompressedSize int64
	completedFiles := 0
	for _, result := range results {
		if result.Status == compressionDomain.StatusCompleted {
			totalOriginalSize += result.OriginalSize
			totalCompressedSize += result.CompressedSize
			completedFiles++
		}
	}
	if completedFiles > 0 {
		s.stats.UpdateStats(completedFiles, totalOriginalSize-totalCompressedSize)
	}

	response := compressionDomain.CompressionResponse{
		Success:                 true,
		Files:                   results,
		TotalFiles:              len(results),
		TotalOriginalSize:       totalOriginalSize,
		TotalCompressedSize:     totalCompressedSize,
		OverallCompressionRatio: compression.Ratio(totalOriginalSize, totalCompressedSize),
		Purpose:                 string(opts.purpose),
		Format:                  string(opts.format),
		AutoDownload:            opts.autoDownload,
	}
	if err := ctx.Err(); err != nil && len(results) < totalFiles {
		response.Error = fmt.Sprintf("cancelled after %d of %d files: %v", len(results), totalFiles, err)
	}
	return response
}

// runJob processes one job and turns failures into an error result
func (s *CompressionServiceImpl) runJob(ctx context.Context, workerID int, job concurrency.Job[source], opts resolvedOptions) compressionDomain.FileResult {
	result, _, err := s.processSingleFile(ctx, job.ID, job.Input, opts, workerID)
	if err != nil {
		compressionErr := common.NewCompressionError("processing", job.Input.Name, err)
		s.config.Logger.Error("Error processing file",
			"file", job.Input.Name,
			"worker_id", workerID,
			"error", compressionErr)

		// Emit error status for this file
		s.emitter.Emit(common.EventFileProgress, compressionDomain.FileProgressUpdate{
			FileID:   job.ID,
			Filename: job.Input.Name,
			Status:   compressionDomain.StatusError,
			Progress: 0,
			WorkerID: workerID,
			Error:    compressionErr.Error(),
		})

		return compressionDomain.FileResult{
			FileID:           job.ID,
			OriginalFilename: job.Input.Name,
			Purpose:          string(opts.purpose),
			Status:           compressionDomain.StatusError,
			Error:            compressionErr.Error(),
		}
	}

	result.Status = compressionDomain.StatusCompleted

	// Emit completion status
	s.emitter.Emit(common.EventFileProgress, compressionDomain.FileProgressUpdate{
		FileID:   job.ID,
		Filename: job.Input.Name,
		Status:   compressionDomain.StatusCompleted,
		Progress: common.CompletedProgressPercent,
		WorkerID: workerID,
	})

	// Stream individual file result immediately
	s.emitter.Emit(common.EventFileCompleted, result)
	return *result
}

func (s *CompressionServiceImpl) processSingleFile(ctx context.Context, fileID string, src source, opts resolvedOptions, workerID int) (*compressionDomain.FileResult, []byte, error) {
	// Emit compression status
	s.emitter.Emit(common.EventFileProgress, compressionDomain.FileProgressUpdate{
		FileID:   fileID,
		Filename: src.Name,
		Status:   compressionDomain.StatusCompressing,
		Progress: common.DefaultProgressPercent,
		WorkerID: workerID,
	})

	data := src.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(src.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("%w: %s", common.ErrFileNotFound, src.Path)
			}
			return nil, nil, err
		}
	}

	started := time.Now()
	out, err := s.processor.CompressData(src.Name, data, string(opts.purpose), string(opts.format))
	if err != nil {
		s.metrics.RecordFailure(string(opts.purpose), failureOutcome(err))
		return nil, nil, err
	}
	s.metrics.RecordSuccess(string(opts.purpose), out.Attempts, out.OriginalSize, out.CompressedSize, time.Since(started))

	var tempPath string
	if opts.keepTemp {
		// Each file gets its own temp directory so equal names never collide
		tempPath = filepath.Join(s.config.WorkingDir, fileID, out.File.Name)
		if err := os.MkdirAll(filepath.Dir(tempPath), common.DefaultFilePermissions); err != nil {
			return nil, nil, fmt.Errorf("create temp directory: %w", err)
		}
		if err := os.WriteFile(tempPath, out.File.Data, 0644); err != nil {
			return nil, nil, fmt.Errorf("write compressed file: %w", err)
		}
	}

	result := &compressionDomain.FileResult{
		FileID:             fileID,
		OriginalFilename:   src.Name,
		CompressedFilename: out.File.Name,
		ContentType:        out.File.ContentType,
		Purpose:            string(opts.purpose),
		Profile:            out.Profile.Name,
		OriginalSize:       out.OriginalSize,
		CompressedSize:     out.CompressedSize,
		CompressionRatio:   out.CompressionRatio,
		Width:              out.Width,
		Height:             out.Height,
		Quality:            out.Quality,
		Attempts:           out.Attempts,
		TempPath:           tempPath,
		PreviewURL:         out.URL,
	}

	var warnings []string
	if opts.autoDownload {
		savedPath, err := common.SaveUnique(opts.downloadFolder, out.File.Name, out.File.Data)
		if err != nil {
			s.config.Logger.Warn("Auto-download failed", "file", src.Name, "error", err)
			warnings = append(warnings, fmt.Sprintf("auto-download failed: %v", err))
		} else {
			result.SavedPath = savedPath
		}
	}

	if opts.publish {
		if s.publisher == nil {
			warnings = append(warnings, "object storage is not configured")
		} else {
			objectPath := path.Join(string(opts.purpose), fileID, out.File.Name)
			url, err := s.publisher.Put(ctx, objectPath, out.File.Data, out.File.ContentType)
			if err != nil {
				s.config.Logger.Warn("Publishing to storage failed", "file", src.Name, "error", err)
				warnings = append(warnings, fmt.Sprintf("publish failed: %v", err))
			} else {
				result.StorageURL = url
			}
		}
	}
	result.Warning = strings.Join(warnings, "; ")

	if err := s.history.Record(statisticsDomain.HistoryEntry{
		FileID:             fileID,
		OriginalFilename:   src.Name,
		CompressedFilename: out.File.Name,
		Purpose:            string(opts.purpose),
		Profile:            out.Profile.Name,
		Format:             string(out.Profile.Format),
		OriginalSize:       out.OriginalSize,
		CompressedSize:     out.CompressedSize,
		CompressionRatio:   out.CompressionRatio,
		Quality:            out.Quality,
		Attempts:           out.Attempts,
		Width:              out.Width,
		Height:             out.Height,
		StorageURL:         result.StorageURL,
		CreatedAt:          time.Now().UTC(),
	}); err != nil {
		s.config.Logger.Warn("Failed to record history", "file", src.Name, "error", err)
	}

	s.config.Logger.Debug("Compressed image",
		"file", src.Name,
		"profile", out.Profile.Name,
		"attempts", out.Attempts,
		"quality", out.Quality,
		"original_size", out.OriginalSize,
		"compressed_size", out.CompressedSize)

	return result, out.File.Data, nil
}

func (s *CompressionServiceImpl) resolveOptions(options compressionDomain.Options) (resolvedOptions, error) {
	purpose, format := options.Purpose, options.Format

	prefs, err := s.prefsRepo.GetPreferences()
	if err != nil {
		s.config.Logger.Warn("Failed to load preferences, using defaults", "error", err)
		prefs = nil
	}
	if prefs != nil {
		if purpose == "" {
			purpose = prefs.DefaultPurpose
		}
		if format == "" {
			format = prefs.OutputFormat
		}
	}
	if purpose == "" {
		purpose = common.DefaultPurpose
	}
	if format == "" {
		format = common.DefaultOutputFormat
	}

	p, err := compression.ParsePurpose(purpose)
	if err != nil {
		return resolvedOptions{}, fmt.Errorf("%w: %w", common.ErrInvalidPurpose, err)
	}
	f, err := compression.ParseFormat(format)
	if err != nil {
		return resolvedOptions{}, fmt.Errorf("%w: %w", common.ErrInvalidFormat, err)
	}

	resolved := resolvedOptions{
		purpose:        p,
		format:         f,
		autoDownload:   options.AutoDownload,
		downloadFolder: options.DownloadFolder,
		publish:        options.Publish,
	}
	if resolved.autoDownload && resolved.downloadFolder == "" {
		folder, err := s.prefsRepo.GetDownloadFolder()
		if err != nil {
			return resolvedOptions{}, common.NewPreferencesError("resolve download folder", err)
		}
		resolved.downloadFolder = folder
	}
	return resolved, nil
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, compression.ErrDecode):
		return metrics.OutcomeDecodeError
	case errors.Is(err, compression.ErrEncode):
		return metrics.OutcomeEncodeError
	default:
		return metrics.OutcomeError
	}
}
