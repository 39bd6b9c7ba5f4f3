package services

import (
	"context"
	"errors"

	"github.com/portfolio/backend/internal/models"
)

var (
	ErrAdminNotFound       = errors.New("admin not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrSlugExists          = errors.New("a project with this title already exists")
	ErrExperienceNotFound  = errors.New("experience not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrMessageNotFound     = errors.New("message not found")
)

type AdminService interface {
	// EnsureAdmin creates the admin if the email is unused. It reports
	// whether a new account was created.
	EnsureAdmin(ctx context.Context, email, password string) (*models.Admin, bool, error)
	Authenticate(ctx context.Context, email, password string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
}

type ProfileService interface {
	// Get returns the singleton, creating it with defaults on first read.
	Get(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error)
}

type SkillService interface {
	List(ctx context.Context) ([]models.Skill, error)
	Get(ctx context.Context, id string) (*models.Skill, error)
	Create(ctx context.Context, req *models.SkillRequest) (*models.Skill, error)
	Update(ctx context.Context, id string, req *models.SkillRequest) (*models.Skill, error)
	Delete(ctx context.Context, id string) error
}

type ProjectService interface {
	List(ctx context.Context, q models.ProjectQuery) ([]models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, req *models.ProjectRequest) (*models.Project, error)
	Update(ctx context.Context, id string, req *models.ProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

type ExperienceService interface {
	List(ctx context.Context, typ models.ExperienceType) ([]models.Experience, error)
	Get(ctx context.Context, id string) (*models.Experience, error)
	Create(ctx context.Context, req *models.ExperienceRequest) (*models.Experience, error)
	Update(ctx context.Context, id string, req *models.ExperienceRequest) (*models.Experience, error)
	Delete(ctx context.Context, id string) error
}

type AchievementService interface {
	List(ctx context.Context, category models.AchievementCategory) ([]models.Achievement, error)
	Get(ctx context.Context, id string) (*models.Achievement, error)
	Create(ctx context.Context, req *models.AchievementRequest) (*models.Achievement, error)
	Update(ctx context.Context, id string, req *models.AchievementRequest) (*models.Achievement, error)
	Delete(ctx context.Context, id string) error
}

type MessageService interface {
	Create(ctx context.Context, req *models.SubmitMessageRequest) (*models.Message, error)
	List(ctx context.Context, q models.MessageQuery) (*models.MessageList, error)
	SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

// Backend bundles one implementation of every service over a shared store.
type Backend struct {
	Name         string
	Admins       AdminService
	Profile      ProfileService
	Skills       SkillService
	Projects     ProjectService
	Experience   ExperienceService
	Achievements AchievementService
	Messages     MessageService

	close func(ctx context.Context) error
	reset func(ctx context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Reset removes all portfolio content and messages. Admin accounts are kept.
func (b *Backend) Reset(ctx context.Context) error {
	if b.reset == nil {
		return nil
	}
	return b.reset(ctx)
}
