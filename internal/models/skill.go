package models

import "time"

type SkillCategory string

const (
	SkillFrontend SkillCategory = "Frontend"
	SkillBackend  SkillCategory = "Backend"
	SkillDatabase SkillCategory = "Database"
	SkillTools    SkillCategory = "Tools"
	SkillOther    SkillCategory = "Other"
)

var SkillCategories = []SkillCategory{SkillFrontend, SkillBackend, SkillDatabase, SkillTools, SkillOther}

func (c SkillCategory) Valid() bool {
	for _, v := range SkillCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (c SkillCategory) Values() []string {
	return enumStrings(SkillCategories)
}

type SkillItem struct {
	Name  string `json:"name" bson:"name"`
	Level int    `json:"level" bson:"level"`
	Icon  string `json:"icon" bson:"icon"`
}

// Skill is one category of skill bars, displayed in Order ascending.
type Skill struct {
	ID        string        `json:"id" bson:"_id"`
	Category  SkillCategory `json:"category" bson:"category"`
	Items     []SkillItem   `json:"items" bson:"items"`
	Order     int           `json:"order" bson:"order"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type SkillItemRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Level *int   `json:"level" validate:"required,min=0,max=100"`
	Icon  string `json:"icon"`
}

// SkillRequest is the body of both create and update.
type SkillRequest struct {
	Category SkillCategory      `json:"category" validate:"required,enum"`
	Items    []SkillItemRequest `json:"items" validate:"required,dive"`
	Order    *int               `json:"order"`
}

func (r *SkillRequest) Validate() map[string]string {
	return validateStruct(r)
}

func (r *SkillRequest) SkillItems() []SkillItem {
	items := make([]SkillItem, 0, len(r.Items))
	for _, it := range r.Items {
		item := SkillItem{Name: it.Name, Icon: it.Icon}
		if it.Level != nil {
			item.Level = *it.Level
		}
		items = append(items, item)
	}
	return items
}

// Apply writes the request onto s. Order is only changed when present.
func (r *SkillRequest) Apply(s *Skill) {
	s.Category = r.Category
	s.Items = r.SkillItems()
	if r.Order != nil {
		s.Order = *r.Order
	}
}

func (r *SkillRequest) Fields() map[string]interface{} {
	set := map[string]interface{}{
		"category": r.Category,
		"items":    r.SkillItems(),
	}
	if r.Order != nil {
		set["order"] = *r.Order
	}
	return set
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
