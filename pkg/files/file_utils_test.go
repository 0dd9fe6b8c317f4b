package files

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(width, height, image.White.C)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save test image: %v", err)
	}
	return path
}

func TestValidateImage(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	path := writeTestImage(t, dir, "ok.jpg", 640, 480)
	result := fu.ValidateImage(path)
	if !result.Valid {
		t.Fatalf("expected valid, got reason %q", result.Reason)
	}
	if result.Width != 640 || result.Height != 480 {
		t.Fatalf("dimensions = %dx%d, want 640x480", result.Width, result.Height)
	}
	if result.Format != "jpeg" {
		t.Fatalf("format = %q, want jpeg", result.Format)
	}
}

func TestValidateImage_FailsClosed(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	if result := fu.ValidateImage(garbage); result.Valid {
		t.Fatal("garbage bytes must be invalid")
	}
	if result := fu.ValidateImage(filepath.Join(dir, "missing.jpg")); result.Valid {
		t.Fatal("missing file must be invalid")
	}
}

func TestOptimizeImage_ResizesWithinBounds(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	in := writeTestImage(t, dir, "big.jpg", 2400, 3600)
	out := filepath.Join(dir, "optimized_big.jpg")

	if !fu.OptimizeImage(in, out, OptimizeOptions{}) {
		t.Fatal("optimize failed")
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open optimized: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > DefaultMaxWidth || bounds.Dy() > DefaultMaxHeight {
		t.Fatalf("optimized size %dx%d exceeds bounds", bounds.Dx(), bounds.Dy())
	}
	// aspect ratio preserved: 2400x3600 -> fits at 1066x1600
	if bounds.Dy() != DefaultMaxHeight {
		t.Fatalf("height = %d, want %d", bounds.Dy(), DefaultMaxHeight)
	}
}

func TestOptimizeImage_NoUpscale(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	in := writeTestImage(t, dir, "small.jpg", 100, 80)
	out := filepath.Join(dir, "optimized_small.jpg")

	if !fu.OptimizeImage(in, out, OptimizeOptions{}) {
		t.Fatal("optimize failed")
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open optimized: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 80 {
		t.Fatalf("small image was rescaled to %v", img.Bounds())
	}
}

func TestOptimizeImage_BadInput(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	if fu.OptimizeImage(filepath.Join(dir, "missing.jpg"), filepath.Join(dir, "out.jpg"), OptimizeOptions{}) {
		t.Fatal("expected false for missing input")
	}
}

func TestGenerateThumbnail(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	in := writeTestImage(t, dir, "photo.jpg", 800, 600)
	out := filepath.Join(dir, "thumb_photo.jpg")

	if !fu.GenerateThumbnail(in, out, 300) {
		t.Fatal("thumbnail failed")
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 300 {
		t.Fatalf("thumbnail = %v, want 300x300 square", img.Bounds())
	}
}

func TestDeleteFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	path := filepath.Join(dir, "victim.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !fu.DeleteFile(path) {
		t.Fatal("first delete should return true")
	}
	if fu.DeleteFile(path) {
		t.Fatal("second delete should return false, not error")
	}
	if fu.DeleteFile("") {
		t.Fatal("empty path should return false")
	}
}

func TestCleanupOldFiles(t *testing.T) {
	dir := t.TempDir()
	fu := NewFileUtils()

	oldFile := filepath.Join(dir, "old.jpg")
	newFile := filepath.Join(dir, "new.jpg")
	for _, p := range []string{oldFile, newFile} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	deleted := fu.CleanupOldFiles(dir, 24*time.Hour)
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Fatal("old file should be gone")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Fatal("new file should survive")
	}
}
