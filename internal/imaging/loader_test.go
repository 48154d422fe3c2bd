package imaging

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ocrerrors "github.com/ironsheep/comic-ocr/internal/errors"
)

// writeTestImage encodes a solid image of the given size into dir/name,
// picking the encoder from the extension.
func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	switch FormatOf(name) {
	case "jpeg":
		err = jpeg.Encode(f, img, nil)
	case "gif":
		err = gif.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page.png", "page.jpg", "page.jpeg", "page.gif"} {
		t.Run(name, func(t *testing.T) {
			path := writeTestImage(t, dir, name, 120, 80)
			img, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
				t.Errorf("unexpected dimensions: got %dx%d, want 120x80", b.Dx(), b.Dy())
			}
		})
	}
}

func TestLoad_NonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/to/image.png")
	if !ocrerrors.Is(err, ocrerrors.ErrorImageLoadFailed) {
		t.Errorf("expected IMAGE_LOAD_FAILED, got %v", err)
	}
}

func TestLoad_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Load(path)
	if !ocrerrors.Is(err, ocrerrors.ErrorImageLoadFailed) {
		t.Errorf("expected IMAGE_LOAD_FAILED, got %v", err)
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, t.TempDir(), "a.png", 10, 10)

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Error("Evict did not remove image from cache")
	}
}

func TestImageCache_ReloadsChangedFile(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()
	path := writeTestImage(t, dir, "page.png", 10, 10)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	writeTestImage(t, dir, "page.png", 30, 10)
	// Make the change visible even on filesystems with coarse timestamps.
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != 30 {
		t.Errorf("stale image returned: width %d, want 30", got)
	}
}

func TestImageCache_EvictsVanishedFile(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, t.TempDir(), "gone.png", 10, 10)

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	_, err := cache.Load(path)
	if !ocrerrors.Is(err, ocrerrors.ErrorImageLoadFailed) {
		t.Errorf("expected IMAGE_LOAD_FAILED, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("entry for a vanished file should be evicted")
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, t.TempDir(), "c.png", 20, 20)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 100))
	info := Describe(img, "/comics/strip.PNG")

	if info.Width != 320 || info.Height != 100 {
		t.Errorf("dimensions: got %dx%d", info.Width, info.Height)
	}
	if info.AspectRatio != 3.2 {
		t.Errorf("AspectRatio: got %v, want 3.2", info.AspectRatio)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"a.png", "png"},
		{"a.JPG", "jpeg"},
		{"a.jpeg", "jpeg"},
		{"a.Gif", "gif"},
		{"a.tiff", "unknown"},
		{"noext", "unknown"},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.format {
			t.Errorf("FormatOf(%q) = %s, want %s", tt.path, got, tt.format)
		}
	}
}
