package services

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/models"
)

type ProfileStore struct {
	col *memoryCollection[models.Profile]
}

func NewProfileStore(dataDir string) (*ProfileStore, error) {
	col, err := newMemoryCollection[models.Profile](dataDir, "profile.json")
	if err != nil {
		return nil, err
	}
	return &ProfileStore{col: col}, nil
}

// getOrCreateLocked returns the stored singleton, inserting the defaults if
// none exists yet. col.mu must be held for writing.
func (s *ProfileStore) getOrCreateLocked() (*models.Profile, error) {
	if prof, ok := s.col.docs[models.ProfileID]; ok {
		return prof, nil
	}
	prof := models.DefaultProfile(time.Now().UTC())
	s.col.docs[models.ProfileID] = &prof
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, models.ProfileID)
		return nil, err
	}
	return &prof, nil
}

func (s *ProfileStore) Get(ctx context.Context) (*models.Profile, error) {
	if prof, ok := s.col.get(models.ProfileID); ok {
		return prof, nil
	}

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	prof, err := s.getOrCreateLocked()
	if err != nil {
		return nil, err
	}
	cp := *prof
	return &cp, nil
}

func (s *ProfileStore) Update(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	current, err := s.getOrCreateLocked()
	if err != nil {
		return nil, err
	}

	next := *current
	req.Apply(&next)
	next.UpdatedAt = time.Now().UTC()

	s.col.docs[models.ProfileID] = &next
	if err := s.col.persistLocked(); err != nil {
		s.col.docs[models.ProfileID] = current
		return nil, err
	}
	cp := next
	return &cp, nil
}
