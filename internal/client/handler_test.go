package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ironclub/fittrack/internal/auth"
	"github.com/ironclub/fittrack/internal/client"
	"github.com/ironclub/fittrack/internal/middleware"
	"github.com/ironclub/fittrack/internal/models"
	"github.com/ironclub/fittrack/internal/view"
)

type fakeUsers struct {
	byID map[string]*models.User
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) UpdateEmail(_ context.Context, id, email string) error {
	f.byID[id].Email = email
	return nil
}

type fakeExercises struct {
	all []models.Exercise
}

func (f *fakeExercises) List(_ context.Context) ([]models.Exercise, error) {
	return f.all, nil
}

func (f *fakeExercises) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, id := range ids {
		for _, ex := range f.all {
			if ex.ID == id {
				out = append(out, ex)
			}
		}
	}
	return out, nil
}

type fakeWorkouts struct {
	byID map[string]*models.Workout
}

func (f *fakeWorkouts) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Workout, error) {
	var out []models.Workout
	for _, wo := range f.byID {
		if wo.User == userID {
			out = append(out, *wo)
		}
	}
	return out, nil
}

func (f *fakeWorkouts) GetByID(_ context.Context, id string) (*models.Workout, error) {
	wo, ok := f.byID[id]
	if !ok {
		return nil, assert.AnError
	}
	return wo, nil
}

func (f *fakeWorkouts) Complete(_ context.Context, id, feedback string) error {
	f.byID[id].Completed = true
	f.byID[id].Feedback = feedback
	return nil
}

type fakeFavorites struct {
	byUser map[string][]string
}

func (f *fakeFavorites) Add(_ context.Context, userID, exerciseID string) error {
	for _, id := range f.byUser[userID] {
		if id == exerciseID {
			return nil
		}
	}
	f.byUser[userID] = append(f.byUser[userID], exerciseID)
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID, exerciseID string) error {
	kept := f.byUser[userID][:0]
	for _, id := range f.byUser[userID] {
		if id != exerciseID {
			kept = append(kept, id)
		}
	}
	f.byUser[userID] = kept
	return nil
}

func (f *fakeFavorites) ListByUser(_ context.Context, userID string) ([]string, error) {
	return f.byUser[userID], nil
}

type fixture struct {
	router    http.Handler
	user      *models.User
	users     *fakeUsers
	exercises *fakeExercises
	workouts  *fakeWorkouts
	favorites *fakeFavorites
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	renderer, err := view.New()
	require.NoError(t, err)

	user := &models.User{
		ID:       primitive.NewObjectID(),
		UserName: "alice",
		Email:    "a@b.com",
		Role:     models.RoleClient,
	}
	f := &fixture{
		user:      user,
		users:     &fakeUsers{byID: map[string]*models.User{user.ID.Hex(): user}},
		exercises: &fakeExercises{},
		workouts:  &fakeWorkouts{byID: map[string]*models.Workout{}},
		favorites: &fakeFavorites{byUser: map[string][]string{}},
	}

	h := client.NewHandler(f.users, f.exercises, f.workouts, f.favorites, renderer)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := &auth.Session{UserID: user.ID.Hex(), UserName: user.UserName, Role: user.Role}
			next.ServeHTTP(w, req.WithContext(middleware.WithSession(req.Context(), sess)))
		})
	})
	r.Route("/client", func(r chi.Router) { h.Routes(r) })
	f.router = r
	return f
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (f *fixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHomepageShowsUser(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/client/homepage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestProfilePages(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/client/profile", "/client/edit-profile"} {
		w := f.get(t, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "a@b.com", path)
	}
}

func TestEditProfile(t *testing.T) {
	f := newFixture(t)

	t.Run("invalid email rejected", func(t *testing.T) {
		w := f.post(t, "/client/edit-profile", url.Values{"email": {"not-an-email"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Please provide a valid email.")
		assert.Equal(t, "a@b.com", f.user.Email)
	})

	t.Run("valid email persisted", func(t *testing.T) {
		w := f.post(t, "/client/edit-profile", url.Values{"email": {"new@b.com"}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/client/profile", w.Header().Get("Location"))
		assert.Equal(t, "new@b.com", f.user.Email)
	})
}

func TestExercisesList(t *testing.T) {
	f := newFixture(t)
	f.exercises.all = []models.Exercise{
		{ID: primitive.NewObjectID(), Name: "Squat", Category: []string{models.CategoryWeight}},
		{ID: primitive.NewObjectID(), Name: "Sun salutation", Category: []string{models.CategoryYoga}},
	}

	w := f.get(t, "/client/exercises")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Squat")
	assert.Contains(t, w.Body.String(), "Sun salutation")
}

func TestFavoritesRoundTrip(t *testing.T) {
	f := newFixture(t)
	ex := models.Exercise{ID: primitive.NewObjectID(), Name: "Squat"}
	f.exercises.all = []models.Exercise{ex}

	w := f.post(t, "/client/favorites/"+ex.ID.Hex(), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = f.get(t, "/client/favorites")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Squat")

	w = f.post(t, "/client/favorites/"+ex.ID.Hex()+"/remove", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = f.get(t, "/client/favorites")
	assert.NotContains(t, w.Body.String(), "Squat")
}

func TestWorkoutsAndDay(t *testing.T) {
	f := newFixture(t)
	ex := models.Exercise{ID: primitive.NewObjectID(), Name: "Squat", Reps: 10, Sets: 3}
	f.exercises.all = []models.Exercise{ex}

	open := &models.Workout{
		ID:          primitive.NewObjectID(),
		Exercises:   []primitive.ObjectID{ex.ID},
		Description: "Leg day",
		User:        f.user.ID,
	}
	done := &models.Workout{
		ID:          primitive.NewObjectID(),
		Exercises:   []primitive.ObjectID{ex.ID},
		Description: "Old session",
		User:        f.user.ID,
		Completed:   true,
	}
	f.workouts.byID[open.ID.Hex()] = open
	f.workouts.byID[done.ID.Hex()] = done

	w := f.get(t, "/client/workout")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Leg day")
	assert.Contains(t, w.Body.String(), "Old session")

	// The day view hides completed workouts.
	w = f.get(t, "/client/client-day")
	assert.Contains(t, w.Body.String(), "Leg day")
	assert.NotContains(t, w.Body.String(), "Old session")
}

func TestCompleteWorkout(t *testing.T) {
	f := newFixture(t)
	wo := &models.Workout{
		ID:   primitive.NewObjectID(),
		User: f.user.ID,
	}
	f.workouts.byID[wo.ID.Hex()] = wo

	w := f.post(t, "/client/workout/"+wo.ID.Hex()+"/complete", url.Values{"feedback": {"tough one"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, wo.Completed)
	assert.Equal(t, "tough one", wo.Feedback)
}

func TestCompleteWorkoutOfAnotherUser(t *testing.T) {
	f := newFixture(t)
	wo := &models.Workout{
		ID:   primitive.NewObjectID(),
		User: primitive.NewObjectID(), // someone else
	}
	f.workouts.byID[wo.ID.Hex()] = wo

	w := f.post(t, "/client/workout/"+wo.ID.Hex()+"/complete", url.Values{"feedback": {"nope"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, wo.Completed)
}
