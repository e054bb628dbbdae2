package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ironclub/fittrack/internal/models"
)

func writeException(msg string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: msg},
		},
	}
}

func TestDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "email index maps to duplicate email",
			err:  writeException("E11000 duplicate key error collection: fittrack.users index: email_unique dup key"),
			want: models.ErrDuplicateEmail,
		},
		{
			name: "username index maps to duplicate username",
			err:  writeException("E11000 duplicate key error collection: fittrack.users index: userName_unique dup key"),
			want: models.ErrDuplicateUserName,
		},
		{
			name: "other errors pass through as nil",
			err:  errors.New("connection reset"),
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, duplicateKeyError(tt.err))
		})
	}
}
