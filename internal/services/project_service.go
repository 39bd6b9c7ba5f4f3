package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

type ProjectStore struct {
	col *memoryCollection[models.Project]
}

func NewProjectStore(dataDir string) (*ProjectStore, error) {
	col, err := newMemoryCollection[models.Project](dataDir, "projects.json")
	if err != nil {
		return nil, err
	}
	return &ProjectStore{col: col}, nil
}

// List returns matching projects newest first, truncated to q.Limit when set.
func (s *ProjectStore) List(ctx context.Context, q models.ProjectQuery) ([]models.Project, error) {
	all := s.col.values()
	projects := make([]models.Project, 0, len(all))
	for i := range all {
		if q.Matches(&all[i]) {
			projects = append(projects, all[i])
		}
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	if q.Limit > 0 && len(projects) > q.Limit {
		projects = projects[:q.Limit]
	}
	return projects, nil
}

// slugOwnerLocked returns the id holding slug, or "". col.mu must be held.
func (s *ProjectStore) slugOwnerLocked(slug string) string {
	for id, p := range s.col.docs {
		if p.Slug == slug {
			return id
		}
	}
	return ""
}

func (s *ProjectStore) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	s.col.mu.RLock()
	defer s.col.mu.RUnlock()

	id := s.slugOwnerLocked(slug)
	if id == "" {
		return nil, ErrProjectNotFound
	}
	cp := *s.col.docs[id]
	return &cp, nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, ok := s.col.get(id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *ProjectStore) Create(ctx context.Context, req *models.ProjectRequest) (*models.Project, error) {
	now := time.Now().UTC()
	p := models.NewProject()
	req.Apply(&p)
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	if s.slugOwnerLocked(p.Slug) != "" {
		return nil, ErrSlugExists
	}

	s.col.docs[p.ID] = &p
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, p.ID)
		return nil, err
	}
	cp := p
	return &cp, nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, req *models.ProjectRequest) (*models.Project, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	current, ok := s.col.docs[id]
	if !ok {
		return nil, ErrProjectNotFound
	}

	next := *current
	req.Apply(&next)
	if owner := s.slugOwnerLocked(next.Slug); owner != "" && owner != id {
		return nil, ErrSlugExists
	}
	next.UpdatedAt = time.Now().UTC()

	s.col.docs[id] = &next
	if err := s.col.persistLocked(); err != nil {
		s.col.docs[id] = current
		return nil, err
	}
	cp := next
	return &cp, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	found, err := s.col.remove(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrProjectNotFound
	}
	return nil
}
