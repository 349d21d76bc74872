package models

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

type GalleryItem struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	GalleryID   uint64 `gorm:"not null;index"`
	Title       string `gorm:"type:varchar(300)"`
	ImageURL    string `gorm:"type:varchar(2000)"`
	ThumbURL    string `gorm:"type:varchar(2000)"`
	Description string `gorm:"type:text"`
	AltText     string `gorm:"type:varchar(500)"`
	// Tags is always a JSON-encoded array of strings
	Tags string `gorm:"type:text"`
	// Attribution for work by an external artist
	ArtistName  string `gorm:"type:varchar(200)"`
	ArtistLink  string `gorm:"type:varchar(500)"`
	Size        int64
	Width       uint16
	Height      uint16
	MimeType    string `gorm:"type:varchar(50)"`
	StoragePath string `gorm:"type:varchar(500)"`
	BucketID    uint64
}

// TitleFromFilename strips the extension: "cat.png" -> "cat"
func TitleFromFilename(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

// NormalizeTags accepts either a JSON array or a comma-separated string
// and returns a JSON-encoded array of trimmed, non-empty strings. The
// strict JSON decode is attempted first, CSV is the fallback.
func NormalizeTags(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "[]"
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		tags = strings.Split(raw, ",")
	}
	clean := []string{}
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			clean = append(clean, tag)
		}
	}
	encoded, _ := json.Marshal(clean)
	return string(encoded)
}
