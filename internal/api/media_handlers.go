package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/foodgramapp/foodgram-server/internal/dto"
	"github.com/foodgramapp/foodgram-server/internal/media/images"
)

// registerMediaRoutes serves stored recipe images. These bypass huma since
// they stream raw bytes with conditional caching.
func (s *Server) registerMediaRoutes() {
	s.router.Get(dto.MediaPrefix+"{file}", s.handleRecipeImage)
}

func (s *Server) handleRecipeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "file")

	etag, err := s.media.ETag(key)
	if err != nil {
		if !errors.Is(err, images.ErrNotFound) {
			s.logger.Debug("image lookup failed", "key", key, "error", err)
		}
		http.NotFound(w, r)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", CacheOneWeek)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := s.media.Get(key)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}
