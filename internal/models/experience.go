package models

import (
	"strings"
	"time"
)

type ExperienceType string

const (
	ExperienceJob        ExperienceType = "Job"
	ExperienceInternship ExperienceType = "Internship"
	ExperienceFreelance  ExperienceType = "Freelance"
	ExperienceEducation  ExperienceType = "Education"
	ExperienceClub       ExperienceType = "Club"
	ExperienceVolunteer  ExperienceType = "Volunteer"
)

var ExperienceTypes = []ExperienceType{
	ExperienceJob, ExperienceInternship, ExperienceFreelance,
	ExperienceEducation, ExperienceClub, ExperienceVolunteer,
}

func (t ExperienceType) Valid() bool {
	for _, v := range ExperienceTypes {
		if t == v {
			return true
		}
	}
	return false
}

func (t ExperienceType) Values() []string {
	return enumStrings(ExperienceTypes)
}

// Experience is a timeline entry. A nil EndDate means the entry is ongoing.
type Experience struct {
	ID          string         `json:"id" bson:"_id"`
	Title       string         `json:"title" bson:"title"`
	Org         string         `json:"org" bson:"org"`
	StartDate   time.Time      `json:"startDate" bson:"startDate"`
	EndDate     *time.Time     `json:"endDate" bson:"endDate"`
	Description string         `json:"description" bson:"description"`
	Highlights  []string       `json:"highlights" bson:"highlights"`
	Type        ExperienceType `json:"type" bson:"type"`
	Location    string         `json:"location" bson:"location"`
	LogoURL     string         `json:"logoUrl" bson:"logoUrl"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// NewExperience returns an entry carrying the schema defaults.
func NewExperience() Experience {
	return Experience{Type: ExperienceJob, Highlights: []string{}}
}

// Ongoing reports whether the entry has no end date.
func (e *Experience) Ongoing() bool {
	return e.EndDate == nil
}

// ExperienceRequest is the body of create and update. An absent or null
// endDate marks the entry as ongoing on both.
type ExperienceRequest struct {
	Title       string          `json:"title" validate:"required,max=100"`
	Org         string          `json:"org" validate:"required,max=100"`
	StartDate   string          `json:"startDate" validate:"required,isodate"`
	EndDate     *string         `json:"endDate" validate:"omitempty,isodate|len=0"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Highlights  []string        `json:"highlights"`
	Type        *ExperienceType `json:"type" validate:"omitempty,enum"`
	Location    *string         `json:"location" validate:"omitempty,max=100"`
	LogoURL     *string         `json:"logoUrl" validate:"omitempty,url|len=0"`
}

func (r *ExperienceRequest) Validate() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	errors := validateStruct(r)
	_, startBad := errors["startDate"]
	_, endBad := errors["endDate"]
	if !startBad && !endBad {
		start, _ := ParseDate(r.StartDate)
		if end := r.endDate(); end != nil && end.Before(start) {
			errors["endDate"] = "endDate must not be before startDate"
		}
	}
	return errors
}

func (r *ExperienceRequest) startDate() time.Time {
	t, _ := ParseDate(r.StartDate)
	return t
}

func (r *ExperienceRequest) endDate() *time.Time {
	if r.EndDate == nil || strings.TrimSpace(*r.EndDate) == "" {
		return nil
	}
	t, err := ParseDate(*r.EndDate)
	if err != nil {
		return nil
	}
	return &t
}

func (r *ExperienceRequest) Apply(e *Experience) {
	e.Title = r.Title
	e.Org = r.Org
	e.StartDate = r.startDate()
	e.EndDate = r.endDate()
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.Highlights != nil {
		e.Highlights = r.Highlights
	}
	if r.Type != nil {
		e.Type = *r.Type
	}
	if r.Location != nil {
		e.Location = *r.Location
	}
	if r.LogoURL != nil {
		e.LogoURL = *r.LogoURL
	}
}

func (r *ExperienceRequest) Fields() map[string]interface{} {
	set := map[string]interface{}{
		"title":     r.Title,
		"org":       r.Org,
		"startDate": r.startDate(),
		"endDate":   r.endDate(),
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	if r.Highlights != nil {
		set["highlights"] = r.Highlights
	}
	if r.Type != nil {
		set["type"] = *r.Type
	}
	if r.Location != nil {
		set["location"] = *r.Location
	}
	if r.LogoURL != nil {
		set["logoUrl"] = *r.LogoURL
	}
	return set
}
