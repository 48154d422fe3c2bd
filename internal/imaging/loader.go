package imaging

import (
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ocrerrors "github.com/ironsheep/comic-ocr/internal/errors"
)

// Load opens and decodes the image at path.
//
// Failures to open or decode are returned as IMAGE_LOAD_FAILED errors.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ocrerrors.NewImageLoadError(path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, ocrerrors.NewImageLoadError(path, err)
	}
	return img, nil
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The MCP server uses it so that planning and recognizing the same page do
// not decode it twice. An entry is reused only while the file's size and
// modification time are unchanged; a re-saved page is decoded again.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img     image.Image
	size    int64
	modTime time.Time
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached
// or changed since it was cached.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	st, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, ocrerrors.NewImageLoadError(path, err)
	}

	c.mu.RLock()
	entry, ok := c.images[path]
	c.mu.RUnlock()
	if ok && entry.size == st.Size() && entry.modTime.Equal(st.ModTime()) {
		return entry.img, nil
	}

	img, err := Load(path)
	if err != nil {
		c.Evict(path)
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = cachedImage{img: img, size: st.Size(), modTime: st.ModTime()}
	c.mu.Unlock()

	return img, nil
}

// Evict removes a specific image from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains the page metadata the region planner cares about.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// AspectRatio is Width/Height, zero for a zero-height image.
	AspectRatio float64 `json:"aspect_ratio"`

	// Format is "png", "jpeg", "gif", or "unknown", detected from the
	// file extension.
	Format string `json:"format"`
}

// Describe returns the metadata of an already loaded image.
func Describe(img image.Image, path string) ImageInfo {
	bounds := img.Bounds()
	info := ImageInfo{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: FormatOf(path),
	}
	if info.Height > 0 {
		info.AspectRatio = float64(info.Width) / float64(info.Height)
	}
	return info
}

// FormatOf maps a file extension to its image format name, case-insensitively.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	}
	return "unknown"
}
