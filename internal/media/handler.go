package media

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// FileStore defines read access to stored media objects.
type FileStore interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Handler streams exercise images to authenticated users.
type Handler struct {
	files FileStore
}

func NewHandler(files FileStore) *Handler {
	return &Handler{files: files}
}

// Get serves GET /media/* where the wildcard is the object key.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	data, contentType, err := h.files.Download(r.Context(), key)
	if err != nil {
		log.Printf("media: download %s: %v", key, err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
