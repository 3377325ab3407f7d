package domain

import (
	"time"
)

// URLMapping is the stored association between an original URL and its short code.
// ID is only meaningful to relational stores and never leaves the process.
type URLMapping struct {
	ID          uint      `gorm:"primaryKey" bson:"-" json:"-"`
	OriginalURL string    `gorm:"not null;type:text;index" bson:"original_url" json:"original_url"`
	ShortCode   string    `gorm:"uniqueIndex;not null;size:32" bson:"short_code" json:"short_code"`
	CreatedAt   time.Time `gorm:"not null" bson:"created_at" json:"created_at"`
	Clicks      int64     `gorm:"not null;default:0" bson:"clicks" json:"clicks"`
}

// TableName specifies the table name for GORM
func (URLMapping) TableName() string {
	return "urls"
}

// NewURLMapping builds a fresh mapping with a zero click counter.
func NewURLMapping(originalURL, shortCode string, now time.Time) *URLMapping {
	return &URLMapping{
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		CreatedAt:   now.UTC(),
		Clicks:      0,
	}
}

// ShortenResult is what the shortening service hands back to the transport layer.
type ShortenResult struct {
	OriginalURL string
	ShortCode   string
	CreatedAt   time.Time
	Clicks      int64
	Created     bool // false when an existing mapping was reused
}

// URLView is the public JSON shape of a mapping returned by the listing API.
type URLView struct {
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
	CreatedAt   string `json:"created_at"` // ISO-8601
	Clicks      int64  `json:"clicks"`
}

// View converts a mapping to its public representation
func (m URLMapping) View() URLView {
	return URLView{
		OriginalURL: m.OriginalURL,
		ShortCode:   m.ShortCode,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339Nano),
		Clicks:      m.Clicks,
	}
}

// APIResponse is the success/error envelope of the JSON management API
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
	Store  string `json:"store"`
	Cache  string `json:"cache"`
}
