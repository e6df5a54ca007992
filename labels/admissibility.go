package labels

import (
	"fmt"

	"gorm.io/gorm"

	"labelscope/models"
)

// scoped restricts an annotation query to the set visible to an
// admissibility decision: everything on the example under collaborative
// annotation, otherwise only the acting user's own annotations. The scope is
// resolved fresh on every call; it is never cached because concurrent
// writers can change it between calls.
func scoped(query *gorm.DB, project models.Project, exampleID, userID uint) *gorm.DB {
	if project.CollaborativeAnnotation {
		return query.Where("example_id = ?", exampleID)
	}
	return query.Where("example_id = ? AND user_id = ?", exampleID, userID)
}

// CanAnnotate decides whether the candidate annotation may be persisted
// given the annotations already in scope and the project policy. A false
// result is a normal rejection, never an error; the error return covers
// scope resolution failures only.
func CanAnnotate(db *gorm.DB, project models.Project, label models.Label) (bool, error) {
	switch candidate := label.(type) {
	case *models.Category:
		var existing []models.Category
		err := scoped(db, project, candidate.ExampleID, candidate.UserID).Find(&existing).Error
		if err != nil {
			return false, fmt.Errorf("resolving category scope: %w", err)
		}
		return categoryAdmissible(*candidate, existing, project.SingleClassClassification), nil

	case *models.Span:
		var existing []models.Span
		err := scoped(db, project, candidate.ExampleID, candidate.UserID).Find(&existing).Error
		if err != nil {
			return false, fmt.Errorf("resolving span scope: %w", err)
		}
		return spanAdmissible(*candidate, existing, project.AllowOverlapping), nil

	case *models.TextLabel:
		var existing []models.TextLabel
		err := scoped(db, project, candidate.ExampleID, candidate.UserID).Find(&existing).Error
		if err != nil {
			return false, fmt.Errorf("resolving text label scope: %w", err)
		}
		return textAdmissible(*candidate, existing), nil

	case *models.Relation, *models.BoundingBox, *models.Segmentation:
		// No content-level constraint for these kinds.
		return true, nil

	default:
		return false, fmt.Errorf("unknown annotation type %T", label)
	}
}

// categoryAdmissible Under exclusive classification a single category of any
// type closes the example for the scope. Otherwise only a duplicate of the
// same label type is rejected.
func categoryAdmissible(candidate models.Category, existing []models.Category, exclusive bool) bool {
	if exclusive {
		return len(existing) == 0
	}
	for _, category := range existing {
		if category.LabelID == candidate.LabelID {
			return false
		}
	}
	return true
}

// spanAdmissible A linear scan against the scope; the overlap volume per
// example is small enough that indexing by offset is not worth it.
func spanAdmissible(candidate models.Span, existing []models.Span, allowOverlapping bool) bool {
	if allowOverlapping {
		return true
	}
	for _, span := range existing {
		if Overlaps(span, candidate) {
			return false
		}
	}
	return true
}

// textAdmissible Equality is exact and case sensitive.
func textAdmissible(candidate models.TextLabel, existing []models.TextLabel) bool {
	for _, textLabel := range existing {
		if textLabel.Text == candidate.Text {
			return false
		}
	}
	return true
}
