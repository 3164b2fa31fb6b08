package api

// API limits and constants.
const (
	// MaxRecipeBodySize bounds recipe create/update payloads, which carry
	// the image as a base64 data URI.
	MaxRecipeBodySize = 15 << 20
)

// Cache-Control header values.
const (
	CacheOneWeek = "public, max-age=604800"
	CacheNoStore = "no-store"
)
