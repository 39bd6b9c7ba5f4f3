package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/models"
)

// adminRecord is the on-disk form of an admin. models.Admin hides the
// hash from JSON, so the file snapshot carries it explicitly.
type adminRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r *adminRecord) admin() *models.Admin {
	return &models.Admin{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type AdminStore struct {
	col *memoryCollection[adminRecord]
}

func NewAdminStore(dataDir string) (*AdminStore, error) {
	col, err := newMemoryCollection[adminRecord](dataDir, "admins.json")
	if err != nil {
		return nil, err
	}
	return &AdminStore{col: col}, nil
}

// findByEmailLocked scans for email. col.mu must be held.
func (s *AdminStore) findByEmailLocked(email string) *adminRecord {
	for _, rec := range s.col.docs {
		if rec.Email == email {
			return rec
		}
	}
	return nil
}

func (s *AdminStore) EnsureAdmin(ctx context.Context, email, password string) (*models.Admin, bool, error) {
	email = models.NormalizeEmail(email)

	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	if rec := s.findByEmailLocked(email); rec != nil {
		return rec.admin(), false, nil
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	rec := &adminRecord{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.col.docs[rec.ID] = rec
	if err := s.col.persistLocked(); err != nil {
		delete(s.col.docs, rec.ID)
		return nil, false, err
	}
	return rec.admin(), true, nil
}

func (s *AdminStore) Authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	s.col.mu.RLock()
	var admin *models.Admin
	if rec := s.findByEmailLocked(models.NormalizeEmail(email)); rec != nil {
		admin = rec.admin()
	}
	s.col.mu.RUnlock()

	if err := checkPassword(admin, password); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminStore) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	rec, ok := s.col.get(id)
	if !ok {
		return nil, ErrAdminNotFound
	}
	return rec.admin(), nil
}
