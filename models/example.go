package models

import "gorm.io/gorm"

// Example A single item to annotate: a text document or an uploaded image.
type Example struct {
	gorm.Model
	ProjectID  uint   `json:"project_id" gorm:"index"`
	Text       string `json:"text"`
	UploadName string `json:"upload_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}
