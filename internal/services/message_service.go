package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

type MessageStore struct {
	col *memoryCollection[models.Message]
}

func NewMessageStore(dataDir string) (*MessageStore, error) {
	col, err := newMemoryCollection[models.Message](dataDir, "messages.json")
	if err != nil {
		return nil, err
	}
	return &MessageStore{col: col}, nil
}

func (s *MessageStore) Create(ctx context.Context, req *models.SubmitMessageRequest) (*models.Message, error) {
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

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	s.col.docs[msg.ID] = msg
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, msg.ID)
		return nil, err
	}
	cp := *msg
	return &cp, nil
}

// List pages through the inbox newest first. UnreadCount ignores the status
// filter.
func (s *MessageStore) List(ctx context.Context, q models.MessageQuery) (*models.MessageList, error) {
	q = q.Normalize()

	all := s.col.values()
	matched := make([]models.Message, 0, len(all))
	var unread int64
	for _, m := range all {
		if m.Status == models.MessageUnread {
			unread++
		}
		if q.Status == "" || m.Status == q.Status {
			matched = append(matched, m)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := []models.Message{}
	if start := q.Skip(); start < len(matched) {
		end := start + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page = matched[start:end]
	}

	return &models.MessageList{
		Messages:    page,
		Pagination:  models.NewPagination(q, total),
		UnreadCount: unread,
	}, nil
}

func (s *MessageStore) SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	current, ok := s.col.docs[id]
	if !ok {
		return nil, ErrMessageNotFound
	}

	next := *current
	next.Status = status
	next.UpdatedAt = time.Now().UTC()

	s.col.docs[id] = &next
	if err := s.col.persistLocked(); err != nil {
		s.col.docs[id] = current
		return nil, err
	}
	cp := next
	return &cp, nil
}

func (s *MessageStore) Delete(ctx context.Context, id string) error {
	found, err := s.col.remove(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrMessageNotFound
	}
	return nil
}
