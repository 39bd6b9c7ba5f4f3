package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

type SkillStore struct {
	col *memoryCollection[models.Skill]
}

func NewSkillStore(dataDir string) (*SkillStore, error) {
	col, err := newMemoryCollection[models.Skill](dataDir, "skills.json")
	if err != nil {
		return nil, err
	}
	return &SkillStore{col: col}, nil
}

// List returns skills by order, oldest first within the same order.
func (s *SkillStore) List(ctx context.Context) ([]models.Skill, error) {
	skills := s.col.values()
	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Order != skills[j].Order {
			return skills[i].Order < skills[j].Order
		}
		return skills[i].CreatedAt.Before(skills[j].CreatedAt)
	})
	return skills, nil
}

func (s *SkillStore) Get(ctx context.Context, id string) (*models.Skill, error) {
	skill, ok := s.col.get(id)
	if !ok {
		return nil, ErrSkillNotFound
	}
	return skill, nil
}

func (s *SkillStore) Create(ctx context.Context, req *models.SkillRequest) (*models.Skill, error) {
	now := time.Now().UTC()
	skill := &models.Skill{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.Apply(skill)

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	s.col.docs[skill.ID] = skill
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, skill.ID)
		return nil, err
	}
	cp := *skill
	return &cp, nil
}

func (s *SkillStore) Update(ctx context.Context, id string, req *models.SkillRequest) (*models.Skill, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	current, ok := s.col.docs[id]
	if !ok {
		return nil, ErrSkillNotFound
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

func (s *SkillStore) Delete(ctx context.Context, id string) error {
	found, err := s.col.remove(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrSkillNotFound
	}
	return nil
}
