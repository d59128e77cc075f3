package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContactSubmissionCollection is the logical collection contact form records are written to.
const ContactSubmissionCollection = "contactsubmission"

// Document is a schemaless record appended to a logical collection.
type Document struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	Collection string            `gorm:"size:128;not null;index" json:"collection"`
	Data       datatypes.JSONMap `gorm:"type:json;not null" json:"data"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TableName pins the table name used for all collections.
func (Document) TableName() string {
	return "documents"
}
