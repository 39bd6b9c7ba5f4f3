package models

import (
	"strings"
	"time"
)

type AchievementCategory string

const (
	AchievementCertificate AchievementCategory = "Certificate"
	AchievementAward       AchievementCategory = "Award"
	AchievementBadge       AchievementCategory = "Badge"
	AchievementLicense     AchievementCategory = "License"
	AchievementOther       AchievementCategory = "Other"
)

var AchievementCategories = []AchievementCategory{
	AchievementCertificate, AchievementAward, AchievementBadge, AchievementLicense, AchievementOther,
}

func (c AchievementCategory) Valid() bool {
	for _, v := range AchievementCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (c AchievementCategory) Values() []string {
	return enumStrings(AchievementCategories)
}

type Achievement struct {
	ID            string              `json:"id" bson:"_id"`
	Title         string              `json:"title" bson:"title"`
	Issuer        string              `json:"issuer" bson:"issuer"`
	Date          time.Time           `json:"date" bson:"date"`
	ImageURL      string              `json:"imageUrl" bson:"imageUrl"`
	Category      AchievementCategory `json:"category" bson:"category"`
	CredentialURL string              `json:"credentialUrl" bson:"credentialUrl"`
	Description   string              `json:"description" bson:"description"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// NewAchievement returns an achievement carrying the schema defaults.
func NewAchievement() Achievement {
	return Achievement{Category: AchievementCertificate}
}

type AchievementRequest struct {
	Title         string               `json:"title" validate:"required,max=100"`
	Issuer        string               `json:"issuer" validate:"required,max=100"`
	Date          string               `json:"date" validate:"required,isodate"`
	ImageURL      *string              `json:"imageUrl" validate:"omitempty,url|len=0"`
	Category      *AchievementCategory `json:"category" validate:"omitempty,enum"`
	CredentialURL *string              `json:"credentialUrl" validate:"omitempty,url|len=0"`
	Description   *string              `json:"description" validate:"omitempty,max=500"`
}

func (r *AchievementRequest) Validate() map[string]string {
	r.Title = strings.TrimSpace(r.Title)
	return validateStruct(r)
}

func (r *AchievementRequest) date() time.Time {
	t, _ := ParseDate(r.Date)
	return t
}

func (r *AchievementRequest) Apply(a *Achievement) {
	a.Title = r.Title
	a.Issuer = r.Issuer
	a.Date = r.date()
	if r.ImageURL != nil {
		a.ImageURL = *r.ImageURL
	}
	if r.Category != nil {
		a.Category = *r.Category
	}
	if r.CredentialURL != nil {
		a.CredentialURL = *r.CredentialURL
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
}

func (r *AchievementRequest) Fields() map[string]interface{} {
	set := map[string]interface{}{
		"title":  r.Title,
		"issuer": r.Issuer,
		"date":   r.date(),
	}
	if r.ImageURL != nil {
		set["imageUrl"] = *r.ImageURL
	}
	if r.Category != nil {
		set["category"] = *r.Category
	}
	if r.CredentialURL != nil {
		set["credentialUrl"] = *r.CredentialURL
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	return set
}
