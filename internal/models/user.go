package models

import (
	"strings"
	"time"
)

// Admin is the single account allowed to edit portfolio content.
type Admin struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AdminInfo is the public view of an admin returned by the auth endpoints.
type AdminInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a *Admin) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Email: a.Email}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Admin   AdminInfo `json:"admin"`
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *LoginRequest) Validate() map[string]string {
	r.Email = NormalizeEmail(r.Email)
	return validateStruct(r)
}
