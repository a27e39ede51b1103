package models

import (
	"time"
)

// Banner represents an uploaded image or video shown in rotation on the
// display. The stored media blob is addressed by Filename, a generated key
// that is never reused by a different upload.
type Banner struct {
	// ID is the unique identifier for the banner.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Filename is the generated storage key of the media blob.
	Filename string `gorm:"size:255;not null;unique" json:"filename"`
	// OriginalName is the name of the file as uploaded, advisory only.
	OriginalName string `gorm:"size:255" json:"original_name"`
	// Active indicates whether the banner is eligible for display.
	Active bool `gorm:"default:true" json:"active"`
	// Archived soft-deletes the banner from default listings and from display.
	Archived bool `gorm:"default:false" json:"archived"`
	// SortOrder is the ascending sort key, not required to be unique.
	SortOrder int `gorm:"column:sort_order;default:0" json:"order"`
	// CreatedAt is the upload timestamp (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
}
