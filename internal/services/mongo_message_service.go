package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfolio/backend/internal/models"
)

type MongoMessageService struct {
	col *mongo.Collection
}

func (s *MongoMessageService) Create(ctx context.Context, req *models.SubmitMessageRequest) (*models.Message, error) {
	now := time.Now().UTC()
	msg := &models.Message{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Status:    models.MessageUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MongoMessageService) List(ctx context.Context, q models.MessageQuery) (*models.MessageList, error) {
	q = q.Normalize()

	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	messages, err := findAll[models.Message](ctx, s.col, filter, opts)
	if err != nil {
		return nil, err
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	unread, err := s.col.CountDocuments(ctx, bson.M{"status": models.MessageUnread})
	if err != nil {
		return nil, err
	}

	return &models.MessageList{
		Messages:    messages,
		Pagination:  models.NewPagination(q, total),
		UnreadCount: unread,
	}, nil
}

func (s *MongoMessageService) SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	set := bson.M{"status": status, "updatedAt": time.Now().UTC()}
	return setByID[models.Message](ctx, s.col, id, set, ErrMessageNotFound)
}

func (s *MongoMessageService) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col, id, ErrMessageNotFound)
}
