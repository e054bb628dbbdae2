package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories an exercise may be tagged with.
const (
	CategoryWeight   = "weight"
	CategoryYoga     = "yoga"
	CategoryCardio   = "cardio"
	CategoryInterval = "interval"
	CategoryDance    = "dance"
	CategoryBalance  = "balance"
	CategoryOther    = "other"
)

// Categories is the full tag set, in display order.
var Categories = []string{
	CategoryWeight, CategoryYoga, CategoryCardio,
	CategoryInterval, CategoryDance, CategoryBalance, CategoryOther,
}

// ValidCategory reports whether s is one of the known exercise tags.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// MaxSets bounds the sets field; a stored value is always in 1..MaxSets.
const MaxSets = 5

// Exercise is a catalogue entry shared across workouts. Image holds a
// media object key served from /media/{key}, empty when none was uploaded.
type Exercise struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Image       string             `json:"image"       bson:"image,omitempty"`
	Category    []string           `json:"category"    bson:"category,omitempty"`
	Description string             `json:"description" bson:"description,omitempty"`
	Reps        int                `json:"reps"        bson:"reps,omitempty"`
	Sets        int                `json:"sets"        bson:"sets,omitempty"`
}

// Workout is an ordered list of exercise references owned by one user.
type Workout struct {
	ID          primitive.ObjectID   `json:"id"          bson:"_id,omitempty"`
	Exercises   []primitive.ObjectID `json:"exercises"   bson:"exercises"`
	Description string               `json:"description" bson:"description,omitempty"`
	User        primitive.ObjectID   `json:"user"        bson:"user"`
	Feedback    string               `json:"feedback"    bson:"feedback,omitempty"`
	Completed   bool                 `json:"completed"   bson:"completed"`
}
