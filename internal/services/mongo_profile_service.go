package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/backend/internal/models"
)

type MongoProfileService struct {
	col *mongo.Collection
}

func NewMongoProfileService(db *mongo.Database) *MongoProfileService {
	return &MongoProfileService{col: db.Collection("profiles")}
}

func (s *MongoProfileService) Get(ctx context.Context) (*models.Profile, error) {
	return s.upsert(ctx, bson.M{})
}

func (s *MongoProfileService) Update(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error) {
	return s.upsert(ctx, bson.M(req.Fields()))
}

// upsert applies set to the singleton, creating it from the defaults first
// if needed. Concurrent first reads converge on the same document.
func (s *MongoProfileService) upsert(ctx context.Context, set bson.M) (*models.Profile, error) {
	now := time.Now().UTC()

	setOnInsert, err := profileDefaults(now)
	if err != nil {
		return nil, err
	}

	update := bson.M{}
	if len(set) > 0 {
		set["updatedAt"] = now
		update["$set"] = set
	}
	// IMPORTANT: MongoDB forbids updating the same path in both $set and $setOnInsert.
	// Defaults only cover the fields the caller is not setting.
	for field := range set {
		delete(setOnInsert, field)
	}
	update["$setOnInsert"] = setOnInsert

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var prof models.Profile
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": models.ProfileID}, update, opts).Decode(&prof)
	if mongo.IsDuplicateKeyError(err) {
		// Another request inserted it between our match and insert; it exists now.
		err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": models.ProfileID}, update, opts).Decode(&prof)
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

func profileDefaults(now time.Time) (bson.M, error) {
	raw, err := bson.Marshal(models.DefaultProfile(now))
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return doc, nil
}
