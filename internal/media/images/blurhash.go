package images

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// blurHashSize bounds the thumbnail the hash is computed from. A
// placeholder needs no detail and the encoder cost grows with pixels.
const blurHashSize = 64

// ComputeBlurHash encodes a 4x3 component BlurHash of img.
func ComputeBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, fitWithin(img, blurHashSize, draw.NearestNeighbor))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// fitWithin scales img down so neither side exceeds maxSide, keeping the
// aspect ratio. Images already small enough are returned as is.
func fitWithin(img image.Image, maxSide int, scaler draw.Scaler) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	var dw, dh int
	if w >= h {
		dw = maxSide
		dh = max(1, h*maxSide/w)
	} else {
		dh = maxSide
		dw = max(1, w*maxSide/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
