package imaging

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

// Config for photo processing
type Config struct {
	MaxOriginalSide int   // Longest side of the optimized original (default 2000)
	ThumbnailSizes  []int // Bounding-box sizes for thumbnails (default 200, 400, 800)
	Quality         int   // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxOriginalSide: 2000,
		ThumbnailSizes:  []int{200, 400, 800},
		Quality:         85,
	}
}

// Variant is one encoded output of a processed photo
type Variant struct {
	Key         string
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Processor turns an uploaded photo into a web-optimized original plus
// thumbnail variants. All outputs are JPEG.
type Processor struct {
	config Config
}

// NewProcessor creates photo processor
func NewProcessor(config Config) *Processor {
	if config.MaxOriginalSide <= 0 {
		config.MaxOriginalSide = 2000
	}
	if len(config.ThumbnailSizes) == 0 {
		config.ThumbnailSizes = []int{200, 400, 800}
	}
	if config.Quality <= 0 {
		config.Quality = 85
	}
	return &Processor{config: config}
}

// Process decodes the photo stored under key and returns the optimized
// original (same key) followed by its thumbnail variants.
func (p *Processor) Process(key string, data []byte) ([]Variant, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	opt := img
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w > p.config.MaxOriginalSide || h > p.config.MaxOriginalSide {
		opt = imaging.Fit(img, p.config.MaxOriginalSide, p.config.MaxOriginalSide, imaging.Lanczos)
	}

	variants := make([]Variant, 0, len(p.config.ThumbnailSizes)+1)

	encoded, err := p.encode(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}
	variants = append(variants, Variant{
		Key:         key,
		Data:        encoded,
		ContentType: "image/jpeg",
		Width:       opt.Bounds().Dx(),
		Height:      opt.Bounds().Dy(),
	})

	base := strings.TrimSuffix(key, path.Ext(key))
	for _, size := range p.config.ThumbnailSizes {
		thumb := imaging.Fit(opt, size, size, imaging.Lanczos)
		encoded, err := p.encode(thumb)
		if err != nil {
			return nil, fmt.Errorf("failed to encode thumbnail %d: %w", size, err)
		}
		variants = append(variants, Variant{
			Key:         fmt.Sprintf("%s_thumb%d.jpg", base, size),
			Data:        encoded,
			ContentType: "image/jpeg",
			Width:       thumb.Bounds().Dx(),
			Height:      thumb.Bounds().Dy(),
		})
	}

	return variants, nil
}

// ValidateType reports whether the filename looks like a supported image
func ValidateType(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// MaxFileSize in bytes (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

func (p *Processor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.config.Quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
