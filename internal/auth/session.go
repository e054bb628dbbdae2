package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ironclub/fittrack/internal/models"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"
)

// Session is the snapshot of the authenticated user held server-side
// and correlated to the client by the cookie token.
type Session struct {
	UserID   string      `json:"user_id"`
	UserName string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Sessions is the session lifecycle used by handlers and guards.
type Sessions interface {
	Create(ctx context.Context, sess Session) (string, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionStore keeps sessions in Redis, one JSON record per token.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create stores a new session record under a fresh token.
func (s *SessionStore) Create(ctx context.Context, sess Session) (string, error) {
	sid := uuid.New().String()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, "session:"+sid, data, SessionTTL).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Get returns the session record, or nil if the token is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := s.rdb.Get(ctx, "session:"+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete destroys a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "session:"+sessionID).Err()
}
