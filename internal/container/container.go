package container

import (
	"log/slog"

	"kleinimg/internal/compression"
	"kleinimg/internal/config"
	compressionDomain "kleinimg/internal/domain/compression"
	preferencesDomain "kleinimg/internal/domain/preferences"
	statisticsDomain "kleinimg/internal/domain/statistics"
	"kleinimg/internal/metrics"
	"kleinimg/internal/services"
	"kleinimg/internal/storage"

	"gorm.io/gorm"
)

// Container holds all dependencies for the application
type Container struct {
	config *config.Config
	db     *gorm.DB
	logger *slog.Logger

	store   storage.Store
	metrics *metrics.Metrics
	emitter compressionDomain.EventEmitter

	// Services
	imageProcessor     compressionDomain.ImageProcessor
	preferencesRepo    preferencesDomain.Repository
	historyRepo        statisticsDomain.HistoryRepository
	compressionService *CompressionServiceImpl
	statisticsService  *StatisticsServiceImpl
}

// Option customises the container
type Option func(*Container)

// WithStore publishes compressed files to store
func WithStore(store storage.Store) Option {
	return func(c *Container) { c.store = store }
}

// WithMetrics records compression metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Container) { c.metrics = m }
}

// WithEmitter sends progress events to emitter
func WithEmitter(emitter compressionDomain.EventEmitter) Option {
	return func(c *Container) { c.emitter = emitter }
}

// New creates a new dependency injection container
func New(cfg *config.Config, db *gorm.DB, opts ...Option) *Container {
	c := &Container{
		config:  cfg,
		db:      db,
		logger:  cfg.Logger,
		emitter: NopEmitter{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initServices()
	return c
}

// initServices initializes all services with their dependencies
func (c *Container) initServices() {
	// Create infrastructure services
	c.imageProcessor = services.NewImageService(compression.NewCompressor())
	c.preferencesRepo = &PreferencesRepositoryAdapter{service: services.NewPreferencesService(c.db)}
	c.historyRepo = &HistoryRepositoryAdapter{service: services.NewHistoryService(c.db)}

	// Create domain services
	c.statisticsService = &StatisticsServiceImpl{
		history:  c.historyRepo,
		config:   c.config,
		emitter:  c.emitter,
		hasStore: c.store != nil,
	}

	c.compressionService = &CompressionServiceImpl{
		processor: c.imageProcessor,
		prefsRepo: c.preferencesRepo,
		history:   c.historyRepo,
		stats:     c.statisticsService,
		config:    c.config,
		emitter:   c.emitter,
		metrics:   c.metrics,
	}
	if c.store != nil {
		c.compressionService.publisher = c.store
	}
}

// GetCompressionService returns the compression service
func (c *Container) GetCompressionService() compressionDomain.Service {
	return c.compressionService
}

// GetStatisticsService returns the statistics service
func (c *Container) GetStatisticsService() statisticsDomain.Service {
	return c.statisticsService
}

// GetPreferencesRepository returns the preferences repository
func (c *Container) GetPreferencesRepository() preferencesDomain.Repository {
	return c.preferencesRepo
}

// GetImageProcessor returns the image processor
func (c *Container) GetImageProcessor() compressionDomain.ImageProcessor {
	return c.imageProcessor
}

// Close releases the object store
func (c *Container) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
