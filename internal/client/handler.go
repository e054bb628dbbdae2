package client

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ironclub/fittrack/internal/auth"
	"github.com/ironclub/fittrack/internal/middleware"
	"github.com/ironclub/fittrack/internal/models"
	"github.com/ironclub/fittrack/internal/view"
)

// UserStore defines the user persistence needed by the client views.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
}

// ExerciseStore defines read access to the exercise catalogue.
type ExerciseStore interface {
	List(ctx context.Context) ([]models.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Exercise, error)
}

// WorkoutStore defines the workout persistence needed by the client views.
type WorkoutStore interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Workout, error)
	GetByID(ctx context.Context, id string) (*models.Workout, error)
	Complete(ctx context.Context, id, feedback string) error
}

// FavoriteStore defines the favorites relation.
type FavoriteStore interface {
	Add(ctx context.Context, userID, exerciseID string) error
	Remove(ctx context.Context, userID, exerciseID string) error
	ListByUser(ctx context.Context, userID string) ([]string, error)
}

// WorkoutView pairs a workout with its resolved exercises for rendering.
type WorkoutView struct {
	Workout   models.Workout
	Exercises []models.Exercise
}

// Handler holds the client-scoped HTTP handlers. Every route runs behind
// the authenticated and is-client guards.
type Handler struct {
	users     UserStore
	exercises ExerciseStore
	workouts  WorkoutStore
	favorites FavoriteStore
	view      *view.Renderer
}

func NewHandler(users UserStore, exercises ExerciseStore, workouts WorkoutStore, favorites FavoriteStore, v *view.Renderer) *Handler {
	return &Handler{users: users, exercises: exercises, workouts: workouts, favorites: favorites, view: v}
}

// Routes mounts the client sub-application on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/homepage", h.Homepage)
	r.Get("/profile", h.Profile)
	r.Get("/edit-profile", h.EditProfilePage)
	r.Post("/edit-profile", h.EditProfile)
	r.Get("/workout", h.Workouts)
	r.Post("/workout/{id}/complete", h.CompleteWorkout)
	r.Get("/exercises", h.Exercises)
	r.Get("/favorites", h.Favorites)
	r.Post("/favorites/{exerciseID}", h.AddFavorite)
	r.Post("/favorites/{exerciseID}/remove", h.RemoveFavorite)
	r.Get("/client-day", h.Day)
}

// currentUser loads the session's user from the store.
func (h *Handler) currentUser(r *http.Request) (*models.User, *auth.Session, error) {
	sess, _ := middleware.SessionFrom(r.Context())
	user, err := h.users.GetUserByID(r.Context(), sess.UserID)
	if err != nil {
		return nil, sess, err
	}
	return user, sess, nil
}

func (h *Handler) internalError(w http.ResponseWriter, what string, err error) {
	log.Printf("client: %s: %v", what, err)
	http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
}

func (h *Handler) Homepage(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	h.view.Render(w, http.StatusOK, "client-homepage.html", view.Data{"client": user})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	h.view.Render(w, http.StatusOK, "client-profile.html", view.Data{"client": user})
}

func (h *Handler) EditProfilePage(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	h.view.Render(w, http.StatusOK, "client-profile-edit.html", view.Data{"client": user})
}

// EditProfile persists an email change.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	user, sess, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}

	email := r.FormValue("email")
	if email == "" || !models.ValidEmail(email) {
		h.view.Render(w, http.StatusBadRequest, "client-profile-edit.html",
			view.Data{"client": user, "errorMessage": "Please provide a valid email."})
		return
	}

	if err := h.users.UpdateEmail(r.Context(), sess.UserID, email); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			h.view.Render(w, http.StatusBadRequest, "client-profile-edit.html",
				view.Data{"client": user, "errorMessage": "Email needs to be unique. The email you choose is already in use."})
			return
		}
		h.internalError(w, "update email", err)
		return
	}
	http.Redirect(w, r, "/client/profile", http.StatusFound)
}

func (h *Handler) Workouts(w http.ResponseWriter, r *http.Request) {
	_, sess, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	views, err := h.loadWorkouts(r.Context(), sess.UserID, false)
	if err != nil {
		h.internalError(w, "load workouts", err)
		return
	}
	h.view.Render(w, http.StatusOK, "client-workouts.html", view.Data{"workouts": views})
}

// Day shows only the workouts still to be done.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	_, sess, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	views, err := h.loadWorkouts(r.Context(), sess.UserID, true)
	if err != nil {
		h.internalError(w, "load workouts", err)
		return
	}
	h.view.Render(w, http.StatusOK, "client-day.html", view.Data{"workouts": views})
}

func (h *Handler) loadWorkouts(ctx context.Context, userID string, openOnly bool) ([]WorkoutView, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}
	workouts, err := h.workouts.ListByUser(ctx, oid)
	if err != nil {
		return nil, err
	}
	views := make([]WorkoutView, 0, len(workouts))
	for _, wo := range workouts {
		if openOnly && wo.Completed {
			continue
		}
		exercises, err := h.exercises.GetByIDs(ctx, wo.Exercises)
		if err != nil {
			return nil, err
		}
		views = append(views, WorkoutView{Workout: wo, Exercises: exercises})
	}
	return views, nil
}

// CompleteWorkout marks one of the client's own workouts as done.
func (h *Handler) CompleteWorkout(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	wo, err := h.workouts.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if wo.User.Hex() != sess.UserID {
		// Not this client's workout.
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.workouts.Complete(r.Context(), id, r.FormValue("feedback")); err != nil {
		h.internalError(w, "complete workout", err)
		return
	}
	http.Redirect(w, r, "/client/workout", http.StatusFound)
}

func (h *Handler) Exercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exercises.List(r.Context())
	if err != nil {
		h.internalError(w, "list exercises", err)
		return
	}
	h.view.Render(w, http.StatusOK, "exercises-list.html", view.Data{"exercises": exercises})
}

func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	ids, err := h.favorites.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		h.internalError(w, "list favorites", err)
		return
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	exercises, err := h.exercises.GetByIDs(r.Context(), oids)
	if err != nil {
		h.internalError(w, "resolve favorites", err)
		return
	}
	h.view.Render(w, http.StatusOK, "client-favorites.html", view.Data{"exercises": exercises})
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	if err := h.favorites.Add(r.Context(), sess.UserID, chi.URLParam(r, "exerciseID")); err != nil {
		h.internalError(w, "add favorite", err)
		return
	}
	http.Redirect(w, r, "/client/favorites", http.StatusFound)
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	if err := h.favorites.Remove(r.Context(), sess.UserID, chi.URLParam(r, "exerciseID")); err != nil {
		h.internalError(w, "remove favorite", err)
		return
	}
	http.Redirect(w, r, "/client/favorites", http.StatusFound)
}
