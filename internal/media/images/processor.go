package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxUploadBytes bounds the decoded size of an uploaded image.
	MaxUploadBytes = 10 * 1024 * 1024

	// maxSide bounds the stored image's width and height.
	maxSide = 1600

	jpegQuality = 85
)

// ErrInvalidImage is returned for payloads that are not a decodable image.
var ErrInvalidImage = errors.New("invalid image")

// Stored describes a saved image.
type Stored struct {
	Key      string // file name within the storage directory
	BlurHash string
	Width    int
	Height   int
}

// Processor turns uploaded data URIs into stored JPEG files.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a Processor writing to storage.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{storage: storage, logger: logger}
}

// Storage returns the underlying file storage.
func (p *Processor) Storage() *Storage {
	return p.storage
}

// SaveDataURI decodes a "data:image/<type>;base64,<payload>" string,
// re-encodes it as JPEG under a fresh random key and computes a BlurHash.
func (p *Processor) SaveDataURI(ctx context.Context, dataURI string) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}
	return p.Save(ctx, raw)
}

// Save decodes raw image bytes (JPEG, PNG, GIF or WebP) and stores them
// as a JPEG scaled to fit maxSide.
func (p *Processor) Save(ctx context.Context, raw []byte) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img = fitWithin(img, maxSide, draw.CatmullRom)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		// The placeholder is optional; the image itself is still usable.
		p.logger.Warn("blurhash failed", "error", err)
	}

	key := uuid.NewString() + ".jpg"
	if err := p.storage.Save(key, buf.Bytes()); err != nil {
		return nil, err
	}

	b := img.Bounds()
	p.logger.Debug("image stored",
		"key", key,
		"source_format", format,
		"width", b.Dx(),
		"height", b.Dy(),
		"bytes", buf.Len(),
	)

	return &Stored{Key: key, BlurHash: hash, Width: b.Dx(), Height: b.Dy()}, nil
}

// DecodeDataURI returns the payload of a base64 image data URI.
func DecodeDataURI(dataURI string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok {
		return nil, fmt.Errorf("%w: expected a data URI", ErrInvalidImage)
	}

	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	mediaType, hasScheme := strings.CutPrefix(mediaType, "data:")
	if !hasScheme || !isBase64 {
		return nil, fmt.Errorf("%w: expected data:image/...;base64,", ErrInvalidImage)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: unsupported media type %q", ErrInvalidImage, mediaType)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, MaxUploadBytes)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return data, nil
}
