package container

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"kleinimg/internal/common"
	"kleinimg/internal/compression"
	"kleinimg/internal/config"
	"kleinimg/internal/database"
	compressionDomain "kleinimg/internal/domain/compression"
	"kleinimg/internal/metrics"
	"kleinimg/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	name string
	data any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *recordingEmitter) Emit(event string, data any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{name: event, data: data})
}

func (e *recordingEmitter) count(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.name == name {
			n++
		}
	}
	return n
}

type testEnv struct {
	container *Container
	config    *config.Config
	emitter   *recordingEmitter
	metrics   *metrics.Metrics
	store     *storage.LocalStore
}

func newTestEnv(t *testing.T, withStore bool) *testEnv {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{
		WorkingDir: filepath.Join(root, "work"),
		AppDataDir: root,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	require.NoError(t, os.MkdirAll(cfg.WorkingDir, 0755))

	db, err := database.Initialize(filepath.Join(root, "test.sqlite3"))
	require.NoError(t, err)

	env := &testEnv{config: cfg, emitter: &recordingEmitter{}, metrics: metrics.New()}
	opts := []Option{WithEmitter(env.emitter), WithMetrics(env.metrics)}
	if withStore {
		env.store, err = storage.NewLocalStore(filepath.Join(root, "storage"), "https://cdn.example.com")
		require.NoError(t, err)
		opts = append(opts, WithStore(env.store))
	}

	env.container = New(cfg, db, opts...)
	t.Cleanup(func() { env.container.Close() })
	return env
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.NRGBA{200, 100, 50, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, pngData []byte) []byte {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(pngData))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func TestCompressImages_NoFiles(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{})
	assert.False(t, resp.Success)
	assert.Equal(t, common.ErrNoFilesProvided.Error(), resp.Error)
}

func TestCompressImages_Batch(t *testing.T) {
	env := newTestEnv(t, false)
	inputDir := t.TempDir()

	files := []string{
		writeFile(t, inputDir, "large.png", noisyPNG(t, 1200, 900)),
		writeFile(t, inputDir, "small.png", smallPNG(t)),
		writeFile(t, inputDir, "broken.png", []byte("definitely not a png")),
		filepath.Join(inputDir, "missing.png"),
	}

	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files:   files,
		Options: compressionDomain.Options{Purpose: "product"},
	})

	require.True(t, resp.Success)
	require.Len(t, resp.Files, 4)
	assert.Equal(t, "product", resp.Purpose)
	assert.Equal(t, "jpeg", resp.Format)

	large, small, broken, missing := resp.Files[0], resp.Files[1], resp.Files[2], resp.Files[3]

	assert.Equal(t, compressionDomain.StatusCompleted, large.Status)
	assert.Equal(t, "large.jpg", large.CompressedFilename)
	assert.Equal(t, "product", large.Profile)
	assert.Equal(t, 1000, large.Width)
	assert.Equal(t, 750, large.Height)
	assert.FileExists(t, large.TempPath)
	assert.Equal(t, filepath.Join(env.config.WorkingDir, large.FileID, "large.jpg"), large.TempPath)
	assert.True(t, strings.HasPrefix(large.PreviewURL, "data:image/jpeg;base64,"))

	assert.Equal(t, compressionDomain.StatusCompleted, small.Status)
	assert.Equal(t, 1, small.Attempts)

	assert.Equal(t, compressionDomain.StatusError, broken.Status)
	assert.NotEmpty(t, broken.Error)
	assert.Equal(t, compressionDomain.StatusError, missing.Status)
	assert.Contains(t, missing.Error, common.ErrFileNotFound.Error())

	assert.Equal(t, large.OriginalSize+small.OriginalSize, resp.TotalOriginalSize)
	assert.Equal(t, large.CompressedSize+small.CompressedSize, resp.TotalCompressedSize)
	assert.Equal(t, compression.Ratio(resp.TotalOriginalSize, resp.TotalCompressedSize), resp.OverallCompressionRatio)

	// Events
	assert.Equal(t, 2, env.emitter.count(common.EventFileCompleted))
	assert.Equal(t, 5, env.emitter.count(common.EventCompressionProgress))
	assert.Equal(t, 1, env.emitter.count(common.EventStatsUpdate))

	// History and statistics
	stats := env.container.GetStatisticsService().GetStats()
	assert.Equal(t, int64(2), stats.TotalFilesCompressed)
	assert.Equal(t, 2, stats.SessionFilesCompressed)
	assert.Equal(t, resp.TotalOriginalSize-resp.TotalCompressedSize, stats.SessionDataSaved)
	assert.Equal(t, stats.SessionDataSaved, stats.TotalDataSaved)

	history, err := env.container.GetStatisticsService().GetHistory(10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// Metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.CompressionsTotal.WithLabelValues("product", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CompressionsTotal.WithLabelValues("product", metrics.OutcomeDecodeError)))
	// Missing files fail before reaching the compressor
	assert.Equal(t, 0.0, testutil.ToFloat64(env.metrics.CompressionsTotal.WithLabelValues("product", metrics.OutcomeError)))
}

func TestCompressImages_InvalidOptions(t *testing.T) {
	env := newTestEnv(t, false)
	path := writeFile(t, t.TempDir(), "a.png", smallPNG(t))
	service := env.container.GetCompressionService()

	resp := service.CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files:   []string{path},
		Options: compressionDomain.Options{Purpose: "avatar"},
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, common.ErrInvalidPurpose.Error())

	resp = service.CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files:   []string{path},
		Options: compressionDomain.Options{Format: "gif"},
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, common.ErrInvalidFormat.Error())
}

func TestCompressImages_AutoDownloadAndPublish(t *testing.T) {
	env := newTestEnv(t, true)
	path := writeFile(t, t.TempDir(), "hero.png", noisyPNG(t, 300, 200))
	downloads := t.TempDir()

	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files: []string{path},
		Options: compressionDomain.Options{
			Purpose:        "banner",
			Format:         "webp",
			AutoDownload:   true,
			DownloadFolder: downloads,
			Publish:        true,
		},
	})
	require.True(t, resp.Success)
	require.Len(t, resp.Files, 1)

	file := resp.Files[0]
	require.Equal(t, compressionDomain.StatusCompleted, file.Status, file.Error)
	assert.Equal(t, "hero.webp", file.CompressedFilename)
	assert.Equal(t, "image/webp", file.ContentType)
	assert.Equal(t, filepath.Join(downloads, "hero_compressed.webp"), file.SavedPath)
	assert.FileExists(t, file.SavedPath)

	expectedURL := "https://cdn.example.com/banner/" + file.FileID + "/hero.webp"
	assert.Equal(t, expectedURL, file.StorageURL)
	assert.Equal(t, expectedURL, file.URL())

	data, info, err := env.store.Get(context.Background(), "banner/"+file.FileID+"/hero.webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", info.ContentType)
	assert.Equal(t, file.CompressedSize, int64(len(data)))

	history, err := env.container.GetStatisticsService().GetHistory(1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, expectedURL, history[0].StorageURL)
	assert.Equal(t, "webp", history[0].Format)
}

func TestCompressImages_PublishWithoutStore(t *testing.T) {
	env := newTestEnv(t, false)
	path := writeFile(t, t.TempDir(), "a.png", smallPNG(t))

	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files:   []string{path},
		Options: compressionDomain.Options{Publish: true},
	})
	require.Len(t, resp.Files, 1)
	assert.Equal(t, compressionDomain.StatusCompleted, resp.Files[0].Status)
	assert.NotEmpty(t, resp.Files[0].Warning)
	assert.Empty(t, resp.Files[0].StorageURL)
}

func TestCompressImages_AutoDownloadKeepsOriginals(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()

	photo := encodeJPEG(t, smallPNG(t))
	files := []string{
		writeFile(t, dir, "photo.jpg", photo),
		writeFile(t, dir, "a.png", smallPNG(t)),
		writeFile(t, dir, "a.jpg", photo),
	}

	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files: files,
		Options: compressionDomain.Options{
			AutoDownload:   true,
			DownloadFolder: dir,
		},
	})
	require.True(t, resp.Success)
	require.Len(t, resp.Files, 3)

	original, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, photo, original, "source file must not be overwritten")

	saved := map[string]bool{}
	for _, f := range resp.Files {
		require.Equal(t, compressionDomain.StatusCompleted, f.Status, f.Error)
		assert.NotContains(t, files, f.SavedPath)
		assert.Equal(t, dir, filepath.Dir(f.SavedPath))
		saved[f.SavedPath] = true
	}
	assert.Len(t, saved, 3, "each file gets its own saved copy")
	assert.True(t, saved[filepath.Join(dir, "photo_compressed.jpg")])
	assert.True(t, saved[filepath.Join(dir, "a_compressed.jpg")])
	assert.True(t, saved[filepath.Join(dir, "a_compressed_2.jpg")])
}

func TestCompressImages_CollectsWarnings(t *testing.T) {
	env := newTestEnv(t, false)
	path := writeFile(t, t.TempDir(), "a.png", smallPNG(t))
	notADir := writeFile(t, t.TempDir(), "downloads", []byte("x"))

	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files: []string{path},
		Options: compressionDomain.Options{
			AutoDownload:   true,
			DownloadFolder: notADir,
			Publish:        true,
		},
	})
	require.Len(t, resp.Files, 1)
	file := resp.Files[0]
	assert.Equal(t, compressionDomain.StatusCompleted, file.Status)
	assert.Empty(t, file.SavedPath)
	assert.Contains(t, file.Warning, "auto-download failed")
	assert.Contains(t, file.Warning, "object storage is not configured")
}

func TestCompressImages_UsesPreferences(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, env.container.GetPreferencesRepository().UpdatePreferences(map[string]any{
		"default_purpose": "banner",
		"output_format":   "webp",
	}))

	path := writeFile(t, t.TempDir(), "a.png", smallPNG(t))
	resp := env.container.GetCompressionService().CompressImages(context.Background(), compressionDomain.CompressionRequest{
		Files: []string{path},
	})
	require.True(t, resp.Success)
	assert.Equal(t, "banner", resp.Purpose)
	assert.Equal(t, "webp", resp.Format)
	assert.Equal(t, "banner", resp.Files[0].Profile)
}

func TestCompressImages_Cancelled(t *testing.T) {
	env := newTestEnv(t, false)
	path := writeFile(t, t.TempDir(), "a.png", smallPNG(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := env.container.GetCompressionService().CompressImages(ctx, compressionDomain.CompressionRequest{
		Files: []string{path, path},
	})
	assert.Empty(t, resp.Files)
	assert.Contains(t, resp.Error, "cancelled")
}

func TestProcessFileData(t *testing.T) {
	env := newTestEnv(t, false)
	downloads := t.TempDir()
	require.NoError(t, env.container.GetPreferencesRepository().UpdatePreferences(map[string]any{
		"default_purpose":         "quick",
		"auto_download_enabled":   true,
		"default_download_folder": downloads,
	}))

	resp := env.container.GetCompressionService().ProcessFileData(context.Background(), []compressionDomain.FileUpload{
		{Name: "upload.png", Data: smallPNG(t)},
	})
	require.True(t, resp.Success)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "quick-xs", resp.Files[0].Profile)
	assert.True(t, resp.AutoDownload)
	assert.FileExists(t, filepath.Join(downloads, "upload_compressed.jpg"))

	empty := env.container.GetCompressionService().ProcessFileData(context.Background(), nil)
	assert.False(t, empty.Success)
}

func TestCompressUpload(t *testing.T) {
	env := newTestEnv(t, false)
	service := env.container.GetCompressionService()

	result, data, err := service.CompressUpload(context.Background(),
		compressionDomain.FileUpload{Name: "shoe.png", Data: noisyPNG(t, 400, 300)},
		compressionDomain.Options{Purpose: "product"})
	require.NoError(t, err)
	assert.Equal(t, compressionDomain.StatusCompleted, result.Status)
	assert.Equal(t, result.CompressedSize, int64(len(data)))
	assert.Equal(t, 1, env.container.GetStatisticsService().GetStats().SessionFilesCompressed)
	assert.Empty(t, result.TempPath)

	entries, err := os.ReadDir(env.config.WorkingDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads leave nothing in the working directory")

	_, _, err = service.CompressUpload(context.Background(),
		compressionDomain.FileUpload{Name: "x.png", Data: []byte("nope")},
		compressionDomain.Options{})
	assert.True(t, errors.Is(err, compression.ErrDecode), "got %v", err)

	_, _, err = service.CompressUpload(context.Background(),
		compressionDomain.FileUpload{Name: "x.png", Data: smallPNG(t)},
		compressionDomain.Options{Purpose: "avatar"})
	assert.ErrorIs(t, err, common.ErrInvalidPurpose)
	assert.ErrorIs(t, err, compression.ErrUnknownPurpose)
}

func TestGetAppStatus(t *testing.T) {
	env := newTestEnv(t, true)
	status := env.container.GetStatisticsService().GetAppStatus()
	assert.Equal(t, "KleinIMG", status["app_name"])
	assert.Equal(t, true, status["storage_enabled"])
	assert.Equal(t, env.config.WorkingDir, status["working_directory"])
}
