// Package color derives stable display colors for tags loaded without one.
package color

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Tag chips use a fixed saturation and lightness so white text stays legible.
const (
	tagSaturation = 0.55
	tagLightness  = 0.45
)

// ForTag returns a "#RRGGBB" color for name. The same name, in any case,
// always maps to the same color.
func ForTag(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	hue := float64(h.Sum32() % 360)

	r, g, b := hslToRGB(hue, tagSaturation, tagLightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// hslToRGB converts hue (0-360), saturation and lightness (0-1) to RGB bytes.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}

	h /= 360
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q

	return channel(p, q, h+1.0/3), channel(p, q, h), channel(p, q, h-1.0/3)
}

func channel(p, q, t float64) uint8 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}

	var v float64
	switch {
	case t < 1.0/6:
		v = p + (q-p)*6*t
	case t < 1.0/2:
		v = q
	case t < 2.0/3:
		v = p + (q-p)*(2.0/3-t)*6
	default:
		v = p
	}
	return uint8(v*255 + 0.5)
}
