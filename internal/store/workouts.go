package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ironclub/fittrack/internal/models"
)

// MongoWorkouts handles workout documents in MongoDB.
type MongoWorkouts struct {
	col *mongo.Collection
}

func NewMongoWorkouts(db *mongo.Database) *MongoWorkouts {
	return &MongoWorkouts{col: db.Collection("workouts")}
}

func (s *MongoWorkouts) Insert(ctx context.Context, wo *models.Workout) (string, error) {
	res, err := s.col.InsertOne(ctx, wo)
	if err != nil {
		return "", fmt.Errorf("insert workout: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// ListByUser returns all workouts owned by a user.
func (s *MongoWorkouts) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Workout, error) {
	cur, err := s.col.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var workouts []models.Workout
	if err := cur.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (s *MongoWorkouts) GetByID(ctx context.Context, id string) (*models.Workout, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var wo models.Workout
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

// Complete marks a workout done and records the client's feedback.
func (s *MongoWorkouts) Complete(ctx context.Context, id, feedback string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	_, err = s.col.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"completed": true, "feedback": feedback},
	})
	if err != nil {
		return fmt.Errorf("complete workout: %w", err)
	}
	return nil
}
