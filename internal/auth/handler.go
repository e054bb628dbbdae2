package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ironclub/fittrack/internal/models"
	"github.com/ironclub/fittrack/internal/view"
)

// User-facing messages. Login failures deliberately share one message so
// the response never reveals whether the username or the password was wrong.
const (
	msgUserNameMissing  = "Please provide your userName."
	msgPasswordTooShort = "Your password needs to be at least 8 characters long."
	msgEmailInvalid     = "Please provide a valid email."
	msgUserNameTaken    = "Username already taken."
	msgEmailTaken       = "Email needs to be unique. The email you choose is already in use."
	msgWrongCredentials = "Wrong credentials."
	msgInternal         = "Something went wrong. Please try again later."
)

// UserStore defines the user persistence needed by the auth handlers.
// Lookups return (nil, nil) when no user matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUserName(ctx context.Context, userName string) (*models.User, error)
}

// Handler holds the signup, login and logout HTTP handlers.
type Handler struct {
	users        UserStore
	sessions     Sessions
	view         *view.Renderer
	secureCookie bool
}

func NewHandler(users UserStore, sessions Sessions, v *view.Renderer, secureCookie bool) *Handler {
	return &Handler{users: users, sessions: sessions, view: v, secureCookie: secureCookie}
}

// SignupPage renders the signup form.
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "signup.html", view.Data{})
}

// Signup validates the form, creates the user and logs them in.
// Validation runs in a fixed order and the first failure wins.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	form := models.SignupForm{
		UserName: r.FormValue("userName"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	echo := view.Data{"userName": form.UserName, "email": form.Email}

	fail := func(msg string) {
		echo["errorMessage"] = msg
		h.view.Render(w, http.StatusBadRequest, "signup.html", echo)
	}

	if form.UserName == "" {
		fail(msgUserNameMissing)
		return
	}
	if len(form.Password) < 8 {
		fail(msgPasswordTooShort)
		return
	}
	if form.Email == "" || !models.ValidEmail(form.Email) {
		fail(msgEmailInvalid)
		return
	}
	role := models.RoleFromForm(form.Role)

	existing, err := h.users.GetUserByUserName(r.Context(), form.UserName)
	if err != nil {
		log.Printf("signup: lookup %q: %v", form.UserName, err)
		echo["errorMessage"] = msgInternal
		h.view.Render(w, http.StatusInternalServerError, "signup.html", echo)
		return
	}
	if existing != nil {
		fail(msgUserNameTaken)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("signup: hash password: %v", err)
		echo["errorMessage"] = msgInternal
		h.view.Render(w, http.StatusInternalServerError, "signup.html", echo)
		return
	}

	user, err := h.users.CreateUser(r.Context(), &models.User{
		UserName:     form.UserName,
		Email:        form.Email,
		Role:         role,
		PasswordHash: string(hashed),
	})
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		fail(msgEmailTaken)
		return
	case errors.Is(err, models.ErrDuplicateUserName):
		// Lost the race against a concurrent signup with the same name.
		fail(msgUserNameTaken)
		return
	case err != nil:
		log.Printf("signup: create user %q: %v", form.UserName, err)
		echo["errorMessage"] = msgInternal
		h.view.Render(w, http.StatusInternalServerError, "signup.html", echo)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		log.Printf("signup: start session for %q: %v", user.UserName, err)
		echo["errorMessage"] = msgInternal
		h.view.Render(w, http.StatusInternalServerError, "signup.html", echo)
		return
	}
	http.Redirect(w, r, user.Role.ProfilePath(), http.StatusFound)
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "login.html", view.Data{})
}

// Login authenticates a user and creates a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := models.LoginForm{
		UserName: r.FormValue("userName"),
		Password: r.FormValue("password"),
	}
	echo := view.Data{"userName": form.UserName}

	fail := func(msg string) {
		echo["errorMessage"] = msg
		h.view.Render(w, http.StatusBadRequest, "login.html", echo)
	}

	if form.UserName == "" {
		fail(msgUserNameMissing)
		return
	}
	if len(form.Password) < 8 {
		fail(msgPasswordTooShort)
		return
	}

	user, err := h.users.GetUserByUserName(r.Context(), form.UserName)
	if err != nil {
		log.Printf("login: lookup %q: %v", form.UserName, err)
		echo["errorMessage"] = msgInternal
		h.view.Render(w, http.StatusInternalServerError, "login.html", echo)
		return
	}
	if user == nil {
		fail(msgWrongCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		fail(msgWrongCredentials)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		log.Printf("login: start session for %q: %v", user.UserName, err)
		echo["errorMessage"] = msgInternal
		h.view.Render(w, http.StatusInternalServerError, "login.html", echo)
		return
	}
	http.Redirect(w, r, user.Role.HomePath(), http.StatusFound)
}

// Logout destroys the current session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("logout: destroy session: %v", err)
			h.view.Render(w, http.StatusInternalServerError, "logout.html",
				view.Data{"errorMessage": msgInternal})
			return
		}
	}
	h.clearCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sid, err := h.sessions.Create(r.Context(), Session{
		UserID:   user.ID.Hex(),
		UserName: user.UserName,
		Role:     user.Role,
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	return nil
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
