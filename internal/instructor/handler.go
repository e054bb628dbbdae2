package instructor

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ironclub/fittrack/internal/middleware"
	"github.com/ironclub/fittrack/internal/models"
	"github.com/ironclub/fittrack/internal/view"
)

// maxImageSize caps exercise image uploads at 5 MiB.
const maxImageSize = 5 << 20

// UserStore defines the user persistence needed by the instructor views.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// ExerciseStore defines catalogue access for authoring.
type ExerciseStore interface {
	List(ctx context.Context) ([]models.Exercise, error)
	Insert(ctx context.Context, ex *models.Exercise) (string, error)
}

// WorkoutStore defines workout creation.
type WorkoutStore interface {
	Insert(ctx context.Context, wo *models.Workout) (string, error)
}

// MediaStore defines image upload for exercise authoring.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Handler holds the instructor-scoped HTTP handlers. Every route runs
// behind the authenticated and is-instructor guards.
type Handler struct {
	users     UserStore
	exercises ExerciseStore
	workouts  WorkoutStore
	media     MediaStore
	view      *view.Renderer
}

func NewHandler(users UserStore, exercises ExerciseStore, workouts WorkoutStore, media MediaStore, v *view.Renderer) *Handler {
	return &Handler{users: users, exercises: exercises, workouts: workouts, media: media, view: v}
}

// Routes mounts the instructor sub-application on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/homepage", h.Homepage)
	r.Get("/profile", h.Profile)
	r.Get("/exercises", h.Exercises)
	r.Post("/exercises", h.CreateExercise)
	r.Get("/workouts", h.AssignWorkoutPage)
	r.Post("/workouts", h.AssignWorkout)
}

func (h *Handler) internalError(w http.ResponseWriter, what string, err error) {
	log.Printf("instructor: %s: %v", what, err)
	http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
}

func (h *Handler) currentUser(r *http.Request) (*models.User, error) {
	sess, _ := middleware.SessionFrom(r.Context())
	return h.users.GetUserByID(r.Context(), sess.UserID)
}

func (h *Handler) Homepage(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	h.view.Render(w, http.StatusOK, "instructor-homepage.html", view.Data{"instructor": user})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		h.internalError(w, "load user", err)
		return
	}
	h.view.Render(w, http.StatusOK, "instructor-profile.html", view.Data{"instructor": user})
}

// Exercises renders the catalogue with the authoring form.
func (h *Handler) Exercises(w http.ResponseWriter, r *http.Request) {
	h.renderExercises(w, r, http.StatusOK, "")
}

func (h *Handler) renderExercises(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	exercises, err := h.exercises.List(r.Context())
	if err != nil {
		h.internalError(w, "list exercises", err)
		return
	}
	h.view.Render(w, status, "instructor-exercises.html", view.Data{
		"exercises":    exercises,
		"categories":   models.Categories,
		"errorMessage": errMsg,
	})
}

// CreateExercise adds a catalogue entry, uploading the image if one was
// attached.
func (h *Handler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		h.renderExercises(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		h.renderExercises(w, r, http.StatusBadRequest, "Please provide an exercise name.")
		return
	}

	var categories []string
	for _, c := range r.MultipartForm.Value["category"] {
		if !models.ValidCategory(c) {
			h.renderExercises(w, r, http.StatusBadRequest, "Unknown category.")
			return
		}
		categories = append(categories, c)
	}

	reps, sets := 0, 0
	if v := r.FormValue("reps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.renderExercises(w, r, http.StatusBadRequest, "Reps must be a number.")
			return
		}
		reps = n
	}
	if v := r.FormValue("sets"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > models.MaxSets {
			h.renderExercises(w, r, http.StatusBadRequest, "Sets must be between 1 and 5.")
			return
		}
		sets = n
	}

	imageKey, err := h.uploadImage(r)
	if err != nil {
		h.internalError(w, "upload image", err)
		return
	}

	_, err = h.exercises.Insert(r.Context(), &models.Exercise{
		Name:        name,
		Image:       imageKey,
		Category:    categories,
		Description: r.FormValue("description"),
		Reps:        reps,
		Sets:        sets,
	})
	if err != nil {
		h.internalError(w, "insert exercise", err)
		return
	}
	http.Redirect(w, r, "/instructor/exercises", http.StatusFound)
}

// uploadImage stores the attached image and returns its object key, or
// "" when no file was sent.
func (h *Handler) uploadImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := "exercises/" + uuid.New().String() + filepath.Ext(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.media.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// AssignWorkoutPage renders the assignment form with clients and exercises.
func (h *Handler) AssignWorkoutPage(w http.ResponseWriter, r *http.Request) {
	h.renderAssign(w, r, http.StatusOK, "")
}

func (h *Handler) renderAssign(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	clients, err := h.users.ListByRole(r.Context(), models.RoleClient)
	if err != nil {
		h.internalError(w, "list clients", err)
		return
	}
	exercises, err := h.exercises.List(r.Context())
	if err != nil {
		h.internalError(w, "list exercises", err)
		return
	}
	h.view.Render(w, status, "instructor-workouts.html", view.Data{
		"clients":      clients,
		"exercises":    exercises,
		"errorMessage": errMsg,
	})
}

// AssignWorkout creates a workout for the chosen client.
func (h *Handler) AssignWorkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAssign(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}

	clientID, err := primitive.ObjectIDFromHex(r.FormValue("client"))
	if err != nil {
		h.renderAssign(w, r, http.StatusBadRequest, "Please choose a client.")
		return
	}

	var exerciseIDs []primitive.ObjectID
	for _, raw := range r.PostForm["exercise"] {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.renderAssign(w, r, http.StatusBadRequest, "Unknown exercise.")
			return
		}
		exerciseIDs = append(exerciseIDs, oid)
	}
	if len(exerciseIDs) == 0 {
		h.renderAssign(w, r, http.StatusBadRequest, "Please choose at least one exercise.")
		return
	}

	_, err = h.workouts.Insert(r.Context(), &models.Workout{
		Exercises:   exerciseIDs,
		Description: r.FormValue("description"),
		User:        clientID,
		Completed:   false,
	})
	if err != nil {
		h.internalError(w, "insert workout", err)
		return
	}
	http.Redirect(w, r, "/instructor/workouts", http.StatusFound)
}
