package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ironclub/fittrack/internal/models"
)

// MongoExercises handles the shared exercise catalogue in MongoDB.
type MongoExercises struct {
	col *mongo.Collection
}

func NewMongoExercises(db *mongo.Database) *MongoExercises {
	return &MongoExercises{col: db.Collection("exercises")}
}

// EnsureIndexes creates the unique name index. Run once at startup.
func (s *MongoExercises) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("exercises indexes: %w", err)
	}
	return nil
}

func (s *MongoExercises) Insert(ctx context.Context, ex *models.Exercise) (string, error) {
	res, err := s.col.InsertOne(ctx, ex)
	if err != nil {
		return "", fmt.Errorf("insert exercise: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// List returns the whole catalogue, ordered by name.
func (s *MongoExercises) List(ctx context.Context) ([]models.Exercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var exercises []models.Exercise
	if err := cur.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByIDs resolves exercise references, preserving the order of ids.
// Unknown ids are skipped, matching how a workout tolerates a deleted
// exercise.
func (s *MongoExercises) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []models.Exercise
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Exercise, len(found))
	for _, ex := range found {
		byID[ex.ID] = ex
	}
	ordered := make([]models.Exercise, 0, len(ids))
	for _, id := range ids {
		if ex, ok := byID[id]; ok {
			ordered = append(ordered, ex)
		}
	}
	return ordered, nil
}
