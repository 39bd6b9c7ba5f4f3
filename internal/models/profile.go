package models

import "time"

// ProfileID is the fixed document id of the profile singleton.
const ProfileID = "profile"

// Stat is one labelled bar on the profile card.
type Stat struct {
	Label string `json:"label" bson:"label" validate:"required"`
	Value int    `json:"value" bson:"value" validate:"min=0,max=100"`
}

// Socials holds the profile's outbound links. Every field may be empty.
type Socials struct {
	GitHub    string `json:"github" bson:"github" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" bson:"linkedin" validate:"omitempty,url"`
	Twitter   string `json:"twitter" bson:"twitter" validate:"omitempty,url"`
	Instagram string `json:"instagram" bson:"instagram" validate:"omitempty,url"`
	Email     string `json:"email" bson:"email" validate:"omitempty,email"`
	Resume    string `json:"resume" bson:"resume" validate:"omitempty,url"`
}

// Profile is the portfolio owner's public card. Exactly one exists.
type Profile struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Role            string    `json:"role" bson:"role"`
	Location        string    `json:"location" bson:"location"`
	Bio             string    `json:"bio" bson:"bio"`
	Tagline         string    `json:"tagline" bson:"tagline"`
	Stats           []Stat    `json:"stats" bson:"stats"`
	Socials         Socials   `json:"socials" bson:"socials"`
	ProfileImageURL string    `json:"profileImageUrl" bson:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DefaultProfile is what a first read of an empty store returns.
func DefaultProfile(now time.Time) Profile {
	return Profile{
		ID:        ProfileID,
		Name:      "Your Name",
		Role:      "Full Stack Developer",
		Location:  "Los Santos",
		Bio:       "Welcome to my portfolio. I build things that work.",
		Tagline:   "Full Stack Developer | MERN | AI | Robotics",
		Stats:     []Stat{},
		Socials:   Socials{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateProfileRequest merges into the singleton. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Role            *string  `json:"role" validate:"omitempty,max=100"`
	Location        *string  `json:"location" validate:"omitempty,max=100"`
	Bio             *string  `json:"bio" validate:"omitempty,max=2000"`
	Tagline         *string  `json:"tagline" validate:"omitempty,max=200"`
	Stats           []Stat   `json:"stats" validate:"omitempty,dive"`
	Socials         *Socials `json:"socials"`
	ProfileImageURL *string  `json:"profileImageUrl" validate:"omitempty,url|len=0"`
}

func (r *UpdateProfileRequest) Validate() map[string]string {
	return validateStruct(r)
}

// Apply merges the request into p.
func (r *UpdateProfileRequest) Apply(p *Profile) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Role != nil {
		p.Role = *r.Role
	}
	if r.Location != nil {
		p.Location = *r.Location
	}
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	if r.Tagline != nil {
		p.Tagline = *r.Tagline
	}
	if r.Stats != nil {
		p.Stats = r.Stats
	}
	if r.Socials != nil {
		p.Socials = *r.Socials
	}
	if r.ProfileImageURL != nil {
		p.ProfileImageURL = *r.ProfileImageURL
	}
}

// Fields returns the bson field names and values the request sets.
func (r *UpdateProfileRequest) Fields() map[string]interface{} {
	set := map[string]interface{}{}
	if r.Name != nil {
		set["name"] = *r.Name
	}
	if r.Role != nil {
		set["role"] = *r.Role
	}
	if r.Location != nil {
		set["location"] = *r.Location
	}
	if r.Bio != nil {
		set["bio"] = *r.Bio
	}
	if r.Tagline != nil {
		set["tagline"] = *r.Tagline
	}
	if r.Stats != nil {
		set["stats"] = r.Stats
	}
	if r.Socials != nil {
		set["socials"] = *r.Socials
	}
	if r.ProfileImageURL != nil {
		set["profileImageUrl"] = *r.ProfileImageURL
	}
	return set
}
