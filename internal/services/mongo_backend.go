package services

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/backend/internal/storage"
)

// NewMongoBackend connects to mongoURI and serves every collection from
// dbName.
func NewMongoBackend(ctx context.Context, mongoURI, dbName string) (*Backend, error) {
	client, err := storage.ConnectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	ensureIndexes(ctx, db)

	profile := NewMongoProfileService(db)
	skills := &MongoSkillService{col: db.Collection("skills")}
	projects := &MongoProjectService{col: db.Collection("projects")}
	experience := &MongoExperienceService{col: db.Collection("experiences")}
	achievements := &MongoAchievementService{col: db.Collection("achievements")}
	messages := &MongoMessageService{col: db.Collection("messages")}

	return &Backend{
		Name:         "mongo:" + dbName,
		Admins:       &MongoAdminService{col: db.Collection("admins")},
		Profile:      profile,
		Skills:       skills,
		Projects:     projects,
		Experience:   experience,
		Achievements: achievements,
		Messages:     messages,
		close:        client.Disconnect,
		reset: func(ctx context.Context) error {
			for _, col := range []*mongo.Collection{
				profile.col, skills.col, projects.col, experience.col, achievements.col, messages.col,
			} {
				if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}

// Best-effort indexes. Only the unique ones carry correctness.
func ensureIndexes(ctx context.Context, db *mongo.Database) {
	indexes := map[string][]mongo.IndexModel{
		"admins": {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		"projects": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"skills":       {{Keys: bson.D{{Key: "order", Value: 1}}}},
		"experiences":  {{Keys: bson.D{{Key: "startDate", Value: -1}}}},
		"achievements": {{Keys: bson.D{{Key: "date", Value: -1}}}},
		"messages":     {{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for name, specs := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			log.Printf("[Mongo] index creation on %s failed: %v", name, err)
		}
	}
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, notFound error) (*T, error) {
	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	return &doc, nil
}

// setByID applies $set to one document and returns it after the update.
func setByID[T any](ctx context.Context, col *mongo.Collection, id string, set bson.M, notFound error) (*T, error) {
	var doc T
	err := col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
