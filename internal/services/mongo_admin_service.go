package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portfolio/backend/internal/models"
)

type MongoAdminService struct {
	col *mongo.Collection
}

func (s *MongoAdminService) findByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return findOne[models.Admin](ctx, s.col, bson.M{"email": email}, ErrAdminNotFound)
}

func (s *MongoAdminService) EnsureAdmin(ctx context.Context, email, password string) (*models.Admin, bool, error) {
	email = models.NormalizeEmail(email)

	existing, err := s.findByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return nil, false, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	admin := &models.Admin{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.col.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race with another bootstrap.
			existing, ferr := s.findByEmail(ctx, email)
			if errors.Is(ferr, ErrAdminNotFound) {
				return nil, false, ErrEmailExists
			}
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return admin, true, nil
}

func (s *MongoAdminService) Authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	admin, err := s.findByEmail(ctx, models.NormalizeEmail(email))
	if err != nil && !errors.Is(err, ErrAdminNotFound) {
		return nil, err
	}
	if err := checkPassword(admin, password); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *MongoAdminService) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return findOne[models.Admin](ctx, s.col, bson.M{"_id": id}, ErrAdminNotFound)
}
