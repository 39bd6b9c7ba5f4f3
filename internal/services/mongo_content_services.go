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

type MongoSkillService struct {
	col *mongo.Collection
}

func (s *MongoSkillService) List(ctx context.Context) ([]models.Skill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	return findAll[models.Skill](ctx, s.col, bson.M{}, opts)
}

func (s *MongoSkillService) Get(ctx context.Context, id string) (*models.Skill, error) {
	return findOne[models.Skill](ctx, s.col, bson.M{"_id": id}, ErrSkillNotFound)
}

func (s *MongoSkillService) Create(ctx context.Context, req *models.SkillRequest) (*models.Skill, error) {
	now := time.Now().UTC()
	skill := &models.Skill{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	req.Apply(skill)
	if _, err := s.col.InsertOne(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *MongoSkillService) Update(ctx context.Context, id string, req *models.SkillRequest) (*models.Skill, error) {
	set := bson.M(req.Fields())
	set["updatedAt"] = time.Now().UTC()
	return setByID[models.Skill](ctx, s.col, id, set, ErrSkillNotFound)
}

func (s *MongoSkillService) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col, id, ErrSkillNotFound)
}

type MongoProjectService struct {
	col *mongo.Collection
}

func (s *MongoProjectService) List(ctx context.Context, q models.ProjectQuery) ([]models.Project, error) {
	filter := bson.M{}
	if q.Featured {
		filter["featured"] = true
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return findAll[models.Project](ctx, s.col, filter, opts)
}

func (s *MongoProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return findOne[models.Project](ctx, s.col, bson.M{"slug": slug}, ErrProjectNotFound)
}

func (s *MongoProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return findOne[models.Project](ctx, s.col, bson.M{"_id": id}, ErrProjectNotFound)
}

func (s *MongoProjectService) Create(ctx context.Context, req *models.ProjectRequest) (*models.Project, error) {
	now := time.Now().UTC()
	p := models.NewProject()
	req.Apply(&p)
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoProjectService) Update(ctx context.Context, id string, req *models.ProjectRequest) (*models.Project, error) {
	set := bson.M(req.Fields())
	set["updatedAt"] = time.Now().UTC()
	p, err := setByID[models.Project](ctx, s.col, id, set, ErrProjectNotFound)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrSlugExists
	}
	return p, err
}

func (s *MongoProjectService) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col, id, ErrProjectNotFound)
}

type MongoExperienceService struct {
	col *mongo.Collection
}

func (s *MongoExperienceService) List(ctx context.Context, typ models.ExperienceType) ([]models.Experience, error) {
	filter := bson.M{}
	if typ != "" {
		filter["type"] = typ
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return findAll[models.Experience](ctx, s.col, filter, opts)
}

func (s *MongoExperienceService) Get(ctx context.Context, id string) (*models.Experience, error) {
	return findOne[models.Experience](ctx, s.col, bson.M{"_id": id}, ErrExperienceNotFound)
}

func (s *MongoExperienceService) Create(ctx context.Context, req *models.ExperienceRequest) (*models.Experience, error) {
	now := time.Now().UTC()
	e := models.NewExperience()
	req.Apply(&e)
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.col.InsertOne(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *MongoExperienceService) Update(ctx context.Context, id string, req *models.ExperienceRequest) (*models.Experience, error) {
	set := bson.M(req.Fields())
	set["updatedAt"] = time.Now().UTC()
	return setByID[models.Experience](ctx, s.col, id, set, ErrExperienceNotFound)
}

func (s *MongoExperienceService) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col, id, ErrExperienceNotFound)
}

type MongoAchievementService struct {
	col *mongo.Collection
}

func (s *MongoAchievementService) List(ctx context.Context, category models.AchievementCategory) ([]models.Achievement, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Achievement](ctx, s.col, filter, opts)
}

func (s *MongoAchievementService) Get(ctx context.Context, id string) (*models.Achievement, error) {
	return findOne[models.Achievement](ctx, s.col, bson.M{"_id": id}, ErrAchievementNotFound)
}

func (s *MongoAchievementService) Create(ctx context.Context, req *models.AchievementRequest) (*models.Achievement, error) {
	now := time.Now().UTC()
	a := models.NewAchievement()
	req.Apply(&a)
	a.ID = uuid.New().String()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoAchievementService) Update(ctx context.Context, id string, req *models.AchievementRequest) (*models.Achievement, error) {
	set := bson.M(req.Fields())
	set["updatedAt"] = time.Now().UTC()
	return setByID[models.Achievement](ctx, s.col, id, set, ErrAchievementNotFound)
}

func (s *MongoAchievementService) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col, id, ErrAchievementNotFound)
}
