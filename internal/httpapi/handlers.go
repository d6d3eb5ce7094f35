package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"kleinimg/internal/common"
	"kleinimg/internal/compression"
	compressionDomain "kleinimg/internal/domain/compression"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

// compressResponse is the JSON body of a successful POST /compress
type compressResponse struct {
	FileID           string  `json:"file_id"`
	FileName         string  `json:"file_name"`
	ContentType      string  `json:"content_type"`
	URL              string  `json:"url"`
	Profile          string  `json:"profile"`
	OriginalSize     int64   `json:"original_size"`
	CompressedSize   int64   `json:"compressed_size"`
	CompressionRatio int     `json:"compression_ratio"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Quality          float64 `json:"quality"`
	Attempts         int     `json:"attempts"`
	Warning          string  `json:"warning,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": s.processor.Profiles()})
}

func (s *Server) handleCompress(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("upload exceeds %d bytes", s.config.MaxUploadBytes),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !compression.IsImage(data) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"error": fmt.Sprintf("%s is not an image", fileHeader.Filename),
		})
		return
	}

	options := compressionDomain.Options{
		Purpose: param(c, "purpose"),
		Format:  param(c, "format"),
		Publish: boolParam(c, "publish"),
	}

	result, encoded, err := s.compression.CompressUpload(c.Request.Context(),
		compressionDomain.FileUpload{Name: fileHeader.Filename, Data: data, Size: int64(len(data))},
		options)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Compression failed", "file", fileHeader.Filename, "error", err)
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if boolParam(c, "inline") {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", result.CompressedFilename))
		c.Header("X-Original-Size", strconv.FormatInt(result.OriginalSize, 10))
		c.Header("X-Compression-Ratio", strconv.Itoa(result.CompressionRatio))
		if result.StorageURL != "" {
			c.Header("Location", result.StorageURL)
		}
		c.Data(http.StatusOK, result.ContentType, encoded)
		return
	}

	c.JSON(http.StatusOK, compressResponse{
		FileID:           result.FileID,
		FileName:         result.CompressedFilename,
		ContentType:      result.ContentType,
		URL:              result.URL(),
		Profile:          result.Profile,
		OriginalSize:     result.OriginalSize,
		CompressedSize:   result.CompressedSize,
		CompressionRatio: result.CompressionRatio,
		Width:            result.Width,
		Height:           result.Height,
		Quality:          result.Quality,
		Attempts:         result.Attempts,
		Warning:          result.Warning,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.statistics.GetStats())
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := s.statistics.GetHistory(limit)
	if err != nil {
		s.logger.Error("Failed to load history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// statusFor maps compression errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidPurpose), errors.Is(err, common.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, compression.ErrDecode):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// param reads a form value, falling back to the query string
func param(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func boolParam(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(param(c, key))
	return err == nil && v
}
