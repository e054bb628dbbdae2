package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ironclub/fittrack/internal/models"
)

// MongoUsers handles user account CRUD in MongoDB.
type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection("users")}
}

// EnsureIndexes creates the unique indexes backing the username/email
// uniqueness invariant. Run once at startup.
func (s *MongoUsers) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("userName_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

func (s *MongoUsers) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	u.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// GetUserByUserName returns (nil, nil) when no such user exists, so
// callers can tell "not found" apart from a store failure.
func (s *MongoUsers) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"userName": userName}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByRole returns all users of a role, ordered by username.
func (s *MongoUsers) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "userName", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateEmail changes a user's email address.
func (s *MongoUsers) UpdateEmail(ctx context.Context, id, email string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	_, err = s.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"email": email}})
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update email: %w", err)
	}
	return nil
}

// duplicateKeyError maps a Mongo unique-index violation onto the domain
// sentinel for the offending field, or nil for any other error.
func duplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), "email") {
		return models.ErrDuplicateEmail
	}
	return models.ErrDuplicateUserName
}
