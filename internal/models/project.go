package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

type ProjectStatus string

const (
	ProjectCompleted  ProjectStatus = "completed"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectPlanned    ProjectStatus = "planned"
)

var ProjectStatuses = []ProjectStatus{ProjectCompleted, ProjectInProgress, ProjectPlanned}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s ProjectStatus) Values() []string {
	return enumStrings(ProjectStatuses)
}

// Project is a portfolio "mission". Slug is derived from Title on every write.
type Project struct {
	ID           string        `json:"id" bson:"_id"`
	Code         string        `json:"code" bson:"code"`
	Codename     string        `json:"codename" bson:"codename"`
	Type         string        `json:"type" bson:"type"`
	Location     string        `json:"location" bson:"location"`
	RewardXP     int           `json:"rewardXp" bson:"rewardXp"`
	Title        string        `json:"title" bson:"title"`
	Slug         string        `json:"slug" bson:"slug"`
	ShortDesc    string        `json:"shortDesc" bson:"shortDesc"`
	FullDesc     string        `json:"fullDesc" bson:"fullDesc"`
	Tags         []string      `json:"tags" bson:"tags"`
	Difficulty   int           `json:"difficulty" bson:"difficulty"`
	Objectives   []string      `json:"objectives" bson:"objectives"`
	Intel        []string      `json:"intel" bson:"intel"`
	Challenges   []string      `json:"challenges" bson:"challenges"`
	Role         string        `json:"role" bson:"role"`
	Outcome      string        `json:"outcome" bson:"outcome"`
	Screenshots  []string      `json:"screenshots" bson:"screenshots"`
	ThumbnailURL string        `json:"thumbnailUrl" bson:"thumbnailUrl"`
	GithubURL    string        `json:"githubUrl" bson:"githubUrl"`
	LiveURL      string        `json:"liveUrl" bson:"liveUrl"`
	Featured     bool          `json:"featured" bson:"featured"`
	Progress     float64       `json:"progress" bson:"progress"`
	Status       ProjectStatus `json:"status" bson:"status"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// NewProject returns a project carrying the schema defaults.
func NewProject() Project {
	return Project{
		Tags:        []string{},
		Difficulty:  3,
		Objectives:  []string{},
		Intel:       []string{},
		Challenges:  []string{},
		Role:        "Full Stack Developer",
		Screenshots: []string{},
		Status:      ProjectCompleted,
	}
}

// Slugify derives the URL-safe identifier of a title.
func Slugify(title string) string {
	return slug.Make(title)
}

type ProjectRequest struct {
	Code         *string        `json:"code" validate:"omitempty,max=30"`
	Codename     *string        `json:"codename" validate:"omitempty,max=100"`
	Type         *string        `json:"type" validate:"omitempty,max=50"`
	Location     *string        `json:"location" validate:"omitempty,max=100"`
	RewardXP     *int           `json:"rewardXp" validate:"omitempty,min=0,max=1000000"`
	Title        string         `json:"title" validate:"required,max=100"`
	ShortDesc    string         `json:"shortDesc" validate:"required,max=200"`
	FullDesc     *string        `json:"fullDesc" validate:"omitempty,max=5000"`
	Tags         []string       `json:"tags"`
	Difficulty   *int           `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Objectives   []string       `json:"objectives"`
	Intel        []string       `json:"intel"`
	Challenges   []string       `json:"challenges"`
	Role         *string        `json:"role" validate:"omitempty,max=100"`
	Outcome      *string        `json:"outcome" validate:"omitempty,max=1000"`
	Screenshots  []string       `json:"screenshots" validate:"omitempty,dive,url"`
	ThumbnailURL *string        `json:"thumbnailUrl" validate:"omitempty,url|len=0"`
	GithubURL    *string        `json:"githubUrl" validate:"omitempty,url|len=0"`
	LiveURL      *string        `json:"liveUrl" validate:"omitempty,url|len=0"`
	Featured     *bool          `json:"featured"`
	Progress     *float64       `json:"progress" validate:"omitempty,min=0,max=1"`
	Status       *ProjectStatus `json:"status" validate:"omitempty,enum"`
}

func (r *ProjectRequest) Validate() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	errors := validateStruct(r)
	if _, ok := errors["title"]; !ok && Slugify(r.Title) == "" {
		errors["title"] = "title must contain at least one letter or digit"
	}
	return errors
}

// Apply writes the request onto p, leaving absent optional fields unchanged.
func (r *ProjectRequest) Apply(p *Project) {
	for field, value := range r.Fields() {
		switch field {
		case "code":
			p.Code = value.(string)
		case "codename":
			p.Codename = value.(string)
		case "type":
			p.Type = value.(string)
		case "location":
			p.Location = value.(string)
		case "rewardXp":
			p.RewardXP = value.(int)
		case "title":
			p.Title = value.(string)
		case "slug":
			p.Slug = value.(string)
		case "shortDesc":
			p.ShortDesc = value.(string)
		case "fullDesc":
			p.FullDesc = value.(string)
		case "tags":
			p.Tags = value.([]string)
		case "difficulty":
			p.Difficulty = value.(int)
		case "objectives":
			p.Objectives = value.([]string)
		case "intel":
			p.Intel = value.([]string)
		case "challenges":
			p.Challenges = value.([]string)
		case "role":
			p.Role = value.(string)
		case "outcome":
			p.Outcome = value.(string)
		case "screenshots":
			p.Screenshots = value.([]string)
		case "thumbnailUrl":
			p.ThumbnailURL = value.(string)
		case "githubUrl":
			p.GithubURL = value.(string)
		case "liveUrl":
			p.LiveURL = value.(string)
		case "featured":
			p.Featured = value.(bool)
		case "progress":
			p.Progress = value.(float64)
		case "status":
			p.Status = value.(ProjectStatus)
		}
	}
}

// Fields returns the bson fields the request sets, including the derived slug.
func (r *ProjectRequest) Fields() map[string]interface{} {
	set := map[string]interface{}{
		"title":     r.Title,
		"slug":      Slugify(r.Title),
		"shortDesc": r.ShortDesc,
	}
	setString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setStrings := func(key string, v []string) {
		if v != nil {
			set[key] = v
		}
	}
	setString("code", r.Code)
	setString("codename", r.Codename)
	setString("type", r.Type)
	setString("location", r.Location)
	setString("fullDesc", r.FullDesc)
	setString("role", r.Role)
	setString("outcome", r.Outcome)
	setString("thumbnailUrl", r.ThumbnailURL)
	setString("githubUrl", r.GithubURL)
	setString("liveUrl", r.LiveURL)
	setStrings("tags", r.Tags)
	setStrings("objectives", r.Objectives)
	setStrings("intel", r.Intel)
	setStrings("challenges", r.Challenges)
	setStrings("screenshots", r.Screenshots)
	if r.RewardXP != nil {
		set["rewardXp"] = *r.RewardXP
	}
	if r.Difficulty != nil {
		set["difficulty"] = *r.Difficulty
	}
	if r.Featured != nil {
		set["featured"] = *r.Featured
	}
	if r.Progress != nil {
		set["progress"] = *r.Progress
	}
	if r.Status != nil {
		set["status"] = *r.Status
	}
	return set
}

// ProjectQuery filters the public project list.
type ProjectQuery struct {
	Featured bool
	Status   ProjectStatus
	Limit    int
}

func (q ProjectQuery) Matches(p *Project) bool {
	if q.Featured && !p.Featured {
		return false
	}
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	return true
}
