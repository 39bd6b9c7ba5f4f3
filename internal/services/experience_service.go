package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

type ExperienceStore struct {
	col *memoryCollection[models.Experience]
}

func NewExperienceStore(dataDir string) (*ExperienceStore, error) {
	col, err := newMemoryCollection[models.Experience](dataDir, "experience.json")
	if err != nil {
		return nil, err
	}
	return &ExperienceStore{col: col}, nil
}

// List returns entries by start date, most recent first. An empty typ
// matches everything.
func (s *ExperienceStore) List(ctx context.Context, typ models.ExperienceType) ([]models.Experience, error) {
	all := s.col.values()
	entries := make([]models.Experience, 0, len(all))
	for _, e := range all {
		if typ == "" || e.Type == typ {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartDate.After(entries[j].StartDate)
	})
	return entries, nil
}

func (s *ExperienceStore) Get(ctx context.Context, id string) (*models.Experience, error) {
	e, ok := s.col.get(id)
	if !ok {
		return nil, ErrExperienceNotFound
	}
	return e, nil
}

func (s *ExperienceStore) Create(ctx context.Context, req *models.ExperienceRequest) (*models.Experience, error) {
	now := time.Now().UTC()
	exp := models.NewExperience()
	req.Apply(&exp)
	exp.ID = uuid.New().String()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	e := &exp

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	s.col.docs[e.ID] = e
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, e.ID)
		return nil, err
	}
	cp := *e
	return &cp, nil
}

func (s *ExperienceStore) Update(ctx context.Context, id string, req *models.ExperienceRequest) (*models.Experience, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	current, ok := s.col.docs[id]
	if !ok {
		return nil, ErrExperienceNotFound
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

func (s *ExperienceStore) Delete(ctx context.Context, id string) error {
	found, err := s.col.remove(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrExperienceNotFound
	}
	return nil
}
