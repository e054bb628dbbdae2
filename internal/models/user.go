package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The shape check is intentionally loose: local@domain.tld, no RFC parsing.
var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

// Role classifies a user and decides which sub-application they land in.
type Role string

const (
	RoleClient     Role = "Client"
	RoleInstructor Role = "Instructor"
)

// RoleFromForm maps the signup form value onto the closed role set.
// The branch is deliberately binary: anything that isn't "Client" —
// including a missing field — signs up as an instructor.
func RoleFromForm(s string) Role {
	if Role(s) == RoleClient {
		return RoleClient
	}
	return RoleInstructor
}

// HomePath is where a logged-in user of this role is sent.
func (r Role) HomePath() string {
	if r == RoleClient {
		return "/client/homepage"
	}
	return "/instructor/homepage"
}

// ProfilePath is where a freshly signed-up user of this role is sent.
func (r Role) ProfilePath() string {
	if r == RoleClient {
		return "/client/profile"
	}
	return "/instructor/profile"
}

// User is an account document stored in MongoDB.
type User struct {
	ID           primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	UserName     string             `json:"userName"   bson:"userName"`
	Email        string             `json:"email"      bson:"email"`
	Role         Role               `json:"role"       bson:"role"`
	PasswordHash string             `json:"-"          bson:"passwordHash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// SignupForm carries the POST /signup form fields.
type SignupForm struct {
	UserName string
	Email    string
	Password string
	Role     string
}

// LoginForm carries the POST /login form fields.
type LoginForm struct {
	UserName string
	Password string
}
