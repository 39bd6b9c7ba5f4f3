package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

type AchievementStore struct {
	col *memoryCollection[models.Achievement]
}

func NewAchievementStore(dataDir string) (*AchievementStore, error) {
	col, err := newMemoryCollection[models.Achievement](dataDir, "achievements.json")
	if err != nil {
		return nil, err
	}
	return &AchievementStore{col: col}, nil
}

func (s *AchievementStore) List(ctx context.Context, category models.AchievementCategory) ([]models.Achievement, error) {
	all := s.col.values()
	out := make([]models.Achievement, 0, len(all))
	for _, a := range all {
		if category == "" || a.Category == category {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *AchievementStore) Get(ctx context.Context, id string) (*models.Achievement, error) {
	a, ok := s.col.get(id)
	if !ok {
		return nil, ErrAchievementNotFound
	}
	return a, nil
}

func (s *AchievementStore) Create(ctx context.Context, req *models.AchievementRequest) (*models.Achievement, error) {
	now := time.Now().UTC()
	a := models.NewAchievement()
	req.Apply(&a)
	a.ID = uuid.New().String()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	s.col.docs[a.ID] = &a
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, a.ID)
		return nil, err
	}
	cp := a
	return &cp, nil
}

func (s *AchievementStore) Update(ctx context.Context, id string, req *models.AchievementRequest) (*models.Achievement, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	current, ok := s.col.docs[id]
	if !ok {
		return nil, ErrAchievementNotFound
	}

	next := *current
	req.Apply(&next)
	next.UpdatedAt = time.Now().UTC()

	s.col.docs[id] = &next
	if err := s.col.persistLocked(); err != nil {
		s.col.docs[id] = current
		return nil, err
	}
	cp := next
	return &cp, nil
}

func (s *AchievementStore) Delete(ctx context.Context, id string) error {
	found, err := s.col.remove(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrAchievementNotFound
	}
	return nil
}
