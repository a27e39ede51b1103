// Package models contains database model definitions.
package models

// Setting represents a building-wide configuration setting stored in the
// database. Values are kept as strings; typed interpretation happens in the
// display settings schema.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Key   string `gorm:"unique;size:100;not null"`
	Value string `gorm:"type:text"`
}
