package models

import (
	"math"
	"strings"
	"time"
)

type MessageStatus string

const (
	MessageUnread   MessageStatus = "unread"
	MessageRead     MessageStatus = "read"
	MessageArchived MessageStatus = "archived"
)

var MessageStatuses = []MessageStatus{MessageUnread, MessageRead, MessageArchived}

func (s MessageStatus) Valid() bool {
	for _, v := range MessageStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s MessageStatus) Values() []string {
	return enumStrings(MessageStatuses)
}

// Message is a visitor-submitted contact form entry.
type Message struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Message   string        `json:"message" bson:"message"`
	Status    MessageStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type SubmitMessageRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Message        string `json:"message" validate:"required,max=2000"`
	RecaptchaToken string `json:"recaptchaToken"`
}

func (r *SubmitMessageRequest) Validate() map[string]string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	r.RecaptchaToken = strings.TrimSpace(r.RecaptchaToken)
	return validateStruct(r)
}

type SubmitMessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type UpdateMessageStatusRequest struct {
	Status MessageStatus `json:"status" validate:"required,enum"`
}

func (r *UpdateMessageStatusRequest) Validate() map[string]string {
	return validateStruct(r)
}

// MessageQuery selects a page of the inbox. Page is 1-based.
type MessageQuery struct {
	Status MessageStatus
	Page   int
	Limit  int
}

const (
	DefaultMessagePageSize = 20
	MaxMessagePageSize     = 100
)

// Normalize clamps paging to sane values.
func (q MessageQuery) Normalize() MessageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultMessagePageSize
	}
	if q.Limit > MaxMessagePageSize {
		q.Limit = MaxMessagePageSize
	}
	// Keep Skip from overflowing; such a page is empty anyway.
	if maxPage := math.MaxInt / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

func (q MessageQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// MessageList is one inbox page plus the global unread badge count.
type MessageList struct {
	Messages    []Message  `json:"messages"`
	Pagination  Pagination `json:"pagination"`
	UnreadCount int64      `json:"unreadCount"`
}

func NewPagination(q MessageQuery, total int64) Pagination {
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return Pagination{Page: q.Page, Pages: pages, Total: total}
}
