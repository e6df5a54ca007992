package models

import "gorm.io/gorm"

// Member roles within a project.
const (
	RoleAdmin     = "project_admin"
	RoleAnnotator = "annotator"
)

// Project A shared annotation project. The three policy flags drive the
// admissibility rules: exclusive categories, span overlap and whether
// members see each other's annotations.
type Project struct {
	gorm.Model
	Name                         string `json:"name"`
	Description                  string `json:"description"`
	SingleClassClassification    bool   `json:"single_class_classification"`
	AllowOverlapping             bool   `json:"allow_overlapping"`
	CollaborativeAnnotation      bool   `json:"collaborative_annotation"`
	AllowMemberToCreateLabelType bool   `json:"allow_member_to_create_label_type"`
}

type Member struct {
	gorm.Model
	ProjectID uint   `json:"project_id" gorm:"uniqueIndex:idx_member_project_user"`
	UserID    uint   `json:"user_id" gorm:"uniqueIndex:idx_member_project_user"`
	Role      string `json:"role"`
}
