package imaging

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"

	"emperror.dev/errors"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// cacheEntry keeps the uploaded bytes next to the decoded image. The bytes are
// what the spot colour engine analyses; the decoded image serves previews.
type cacheEntry struct {
	data []byte
	img  image.Image
}

// ImageCache provides thread-safe caching of uploaded artwork to avoid redundant disk reads.
//
// The cache stores the raw file bytes and the decoded image keyed by file path.
// Once a file is loaded, subsequent Bytes() and Load() calls for the same path
// are served from memory.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Entries remain in memory until explicitly removed via Evict() or Clear().
// Callers that write a simplified image back to a cached path must Evict() it.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	data, err := cache.Bytes("/uploads/logo.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := engine.Classify(data, false)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*cacheEntry
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*cacheEntry),
	}
}

// get returns the entry for path, reading and decoding the file on a miss.
func (c *ImageCache) get(path string) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	e := &cacheEntry{data: data, img: img}
	c.mu.Lock()
	c.images[path] = e
	c.mu.Unlock()

	return e, nil
}

// Load retrieves the decoded image for path, reading it from disk if not cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. Files that cannot
// be decoded are not cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// Bytes returns the raw file contents for path. The file must hold a
// decodable image. The returned slice is shared and must not be modified.
func (c *ImageCache) Bytes(path string) ([]byte, error) {
	e, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format, e.g. "png", "jpeg", "webp".
	// Detection is based on file contents, not the extension.
	Format string `json:"format"`

	// MimeType is the detected media type, e.g. "image/png".
	MimeType string `json:"mime_type"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// # Format Detection
//
// The format is sniffed from the file contents, so an upload named "logo.png"
// that actually holds JPEG data reports "jpeg".
//
// # Color Depth Detection
//
// Color depth is determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.get(path)
	if err != nil {
		return nil, err
	}

	mt := mimetype.Detect(e.data)
	format := "unknown"
	if sub, ok := strings.CutPrefix(mt.String(), "image/"); ok {
		format = sub
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch e.img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := e.img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		MimeType:      mt.String(),
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: int64(len(e.data)),
	}, nil
}
