package site

import (
	"net/http"

	"github.com/ironclub/fittrack/internal/middleware"
	"github.com/ironclub/fittrack/internal/models"
	"github.com/ironclub/fittrack/internal/view"
)

// Handler serves the landing page and the role-based homepage dispatch.
type Handler struct {
	view *view.Renderer
}

func NewHandler(v *view.Renderer) *Handler {
	return &Handler{view: v}
}

// Landing renders the public start page.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "index.html", view.Data{})
}

// Homepage sends an authenticated user to their role's sub-application.
// The switch is exhaustive over the role enum; an impossible value means
// the session is stale, so the user is asked to log in again.
func (h *Handler) Homepage(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	switch sess.Role {
	case models.RoleClient:
		http.Redirect(w, r, "/client/homepage", http.StatusFound)
	case models.RoleInstructor:
		http.Redirect(w, r, "/instructor/homepage", http.StatusFound)
	default:
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}
