package models

import "gorm.io/gorm"

// Label is implemented by every annotation variant. It exposes the two
// fields the admissibility scope is resolved from.
type Label interface {
	GetExampleID() uint
	GetUserID() uint
}

// Category A classification label on an example. The referenced label type
// is the classification itself.
type Category struct {
	gorm.Model
	ExampleID uint `json:"example_id" gorm:"index"`
	UserID    uint `json:"user_id" gorm:"index"`
	LabelID   uint `json:"label_id" gorm:"index"`
}

// Span A label attached to a half-open [start_offset, end_offset) range of
// the example text. start_offset < end_offset is enforced upstream.
type Span struct {
	gorm.Model
	ExampleID   uint `json:"example_id" gorm:"index"`
	UserID      uint `json:"user_id" gorm:"index"`
	LabelID     uint `json:"label_id" gorm:"index"`
	StartOffset int  `json:"start_offset"`
	EndOffset   int  `json:"end_offset"`
}

// TextLabel A free-form text annotation, the label-type-less alternative to
// a category. Duplication is defined by exact text equality.
type TextLabel struct {
	gorm.Model
	ExampleID uint   `json:"example_id" gorm:"index"`
	UserID    uint   `json:"user_id" gorm:"index"`
	Text      string `json:"text"`
}

// Relation A typed, directed edge between two span annotations.
type Relation struct {
	gorm.Model
	ExampleID uint `json:"example_id" gorm:"index"`
	UserID    uint `json:"user_id" gorm:"index"`
	FromID    uint `json:"from_id"`
	ToID      uint `json:"to_id"`
	TypeID    uint `json:"type_id" gorm:"index"`
}

// BoundingBox An axis-aligned rectangle on an image example.
type BoundingBox struct {
	gorm.Model
	ExampleID uint    `json:"example_id" gorm:"index"`
	UserID    uint    `json:"user_id" gorm:"index"`
	LabelID   uint    `json:"label_id" gorm:"index"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Segmentation A polygon on an image example. Points holds a JSON-encoded
// flat list of vertex coordinates [x1, y1, x2, y2, ...].
type Segmentation struct {
	gorm.Model
	ExampleID uint   `json:"example_id" gorm:"index"`
	UserID    uint   `json:"user_id" gorm:"index"`
	LabelID   uint   `json:"label_id" gorm:"index"`
	Points    string `json:"points"`
}

func (a Category) GetExampleID() uint     { return a.ExampleID }
func (a Category) GetUserID() uint        { return a.UserID }
func (a Span) GetExampleID() uint         { return a.ExampleID }
func (a Span) GetUserID() uint            { return a.UserID }
func (a TextLabel) GetExampleID() uint    { return a.ExampleID }
func (a TextLabel) GetUserID() uint       { return a.UserID }
func (a Relation) GetExampleID() uint     { return a.ExampleID }
func (a Relation) GetUserID() uint        { return a.UserID }
func (a BoundingBox) GetExampleID() uint  { return a.ExampleID }
func (a BoundingBox) GetUserID() uint     { return a.UserID }
func (a Segmentation) GetExampleID() uint { return a.ExampleID }
func (a Segmentation) GetUserID() uint    { return a.UserID }
