package files

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"grocery-budget-backend/internal/utils/logging"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 1600
	DefaultQuality   = 85
	ThumbnailSize    = 300
	thumbnailQuality = 80
)

type (
	ValidationResult struct {
		Valid  bool
		Width  int
		Height int
		Format string
		Reason string
	}

	OptimizeOptions struct {
		MaxWidth  int
		MaxHeight int
		Quality   int
	}

	// FileUtils owns every filesystem touch of the pipeline: image
	// validation, optimization, thumbnails and best-effort deletion.
	FileUtils interface {
		EnsureDir(path string) error
		ValidateImage(path string) ValidationResult
		OptimizeImage(inPath, outPath string, opts OptimizeOptions) bool
		GenerateThumbnail(inPath, outPath string, size int) bool
		DeleteFile(path string) bool
		CleanupOldFiles(dir string, maxAge time.Duration) int
		StartSweeper(dir string, maxAge, interval time.Duration)
	}

	fileUtils struct{}
)

func NewFileUtils() FileUtils {
	return &fileUtils{}
}

func (f *fileUtils) EnsureDir(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

// ValidateImage fails closed: any open/decode error yields Valid=false, it
// never propagates an error past this boundary.
func (f *fileUtils) ValidateImage(path string) ValidationResult {
	file, err := os.Open(path)
	if err != nil {
		return ValidationResult{Valid: false, Reason: err.Error()}
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return ValidationResult{Valid: false, Reason: err.Error()}
	}

	return ValidationResult{
		Valid:  true,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}
}

// OptimizeImage resizes inPath to fit opts bounds preserving aspect ratio
// without upscaling, re-encodes as JPEG and writes outPath. Returns false on
// any failure so callers can apply their own fallback policy.
func (f *fileUtils) OptimizeImage(inPath, outPath string, opts OptimizeOptions) bool {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = DefaultMaxHeight
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}

	img, err := imaging.Open(inPath, imaging.AutoOrientation(true))
	if err != nil {
		logging.LogError("files", "OptimizeImage", inPath, err)
		return false
	}

	bounds := img.Bounds()
	if bounds.Dx() > opts.MaxWidth || bounds.Dy() > opts.MaxHeight {
		img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	}

	if err := imaging.Save(img, outPath, imaging.JPEGQuality(opts.Quality)); err != nil {
		logging.LogError("files", "OptimizeImage", outPath, err)
		return false
	}

	logging.GetLogger().WithField("module", "files").
		Infof("image optimized: %s -> %s", inPath, outPath)
	return true
}

// GenerateThumbnail produces a size x size crop-to-cover JPEG square.
func (f *fileUtils) GenerateThumbnail(inPath, outPath string, size int) bool {
	if size <= 0 {
		size = ThumbnailSize
	}

	img, err := imaging.Open(inPath, imaging.AutoOrientation(true))
	if err != nil {
		logging.LogError("files", "GenerateThumbnail", inPath, err)
		return false
	}

	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, outPath, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		logging.LogError("files", "GenerateThumbnail", outPath, err)
		return false
	}
	return true
}

// DeleteFile is idempotent: a missing file is not an error and returns false.
// Deletion failures are logged and swallowed, cleanup is best-effort.
func (f *fileUtils) DeleteFile(path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	if err := os.Remove(path); err != nil {
		logging.LogError("files", "DeleteFile", path, err)
		return false
	}
	logging.GetLogger().WithField("module", "files").Infof("file deleted: %s", path)
	return true
}

// CleanupOldFiles deletes anything in dir older than maxAge and returns the
// number of files removed.
func (f *fileUtils) CleanupOldFiles(dir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.LogError("files", "CleanupOldFiles", dir, err)
		return 0
	}

	deleted := 0
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if f.DeleteFile(filepath.Join(dir, entry.Name())) {
				deleted++
			}
		}
	}

	if deleted > 0 {
		logging.GetLogger().WithField("module", "files").
			Infof("cleaned up %d old files from %s", deleted, dir)
	}
	return deleted
}

// StartSweeper runs the retention sweep on a fixed interval, independent of
// the request path.
func (f *fileUtils) StartSweeper(dir string, maxAge, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			f.CleanupOldFiles(dir, maxAge)
		}
	}()
}
