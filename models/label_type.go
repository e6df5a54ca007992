package models

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// LabelKind Which annotation relation a label type is defined for. The
// registry keeps one table for all kinds; every operation is scoped by
// (project, kind), so "unique text per project" means unique within the
// kind's registry, matching the per-kind tables of classic annotation tools.
type LabelKind string

const (
	LabelKindCategory LabelKind = "category"
	LabelKindSpan     LabelKind = "span"
	LabelKindRelation LabelKind = "relation"
)

// AnnotationJoin The annotation table and label-type foreign key that back
// usage counts for this kind.
func (k LabelKind) AnnotationJoin() (table, fk string) {
	switch k {
	case LabelKindSpan:
		return "spans", "label_id"
	case LabelKindRelation:
		return "relations", "type_id"
	default:
		return "categories", "label_id"
	}
}

// LabelType A named, project-scoped label definition. UsageCount is derived
// from the referencing annotations at query time and is never stored, so it
// cannot go stale.
type LabelType struct {
	gorm.Model
	ProjectID       uint      `json:"project_id" gorm:"uniqueIndex:idx_label_scope_text"`
	Kind            LabelKind `json:"kind" gorm:"size:16;uniqueIndex:idx_label_scope_text"`
	Text            string    `json:"text" gorm:"size:200;uniqueIndex:idx_label_scope_text"`
	PrefixKey       string    `json:"prefix_key"`
	SuffixKey       string    `json:"suffix_key"`
	BackgroundColor string    `json:"background_color"`
	TextColor       string    `json:"text_color"`
	UsageCount      int64     `json:"usage_count" gorm:"->;-:migration"`
}

// LabelTypeRecord One record of a bulk label import, after key normalization.
type LabelTypeRecord struct {
	Text            string `json:"text"`
	PrefixKey       string `json:"prefix_key"`
	SuffixKey       string `json:"suffix_key"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// ListOptions Pagination, search and ordering for label type listings.
type ListOptions struct {
	Limit    int
	Offset   int
	NoPage   bool
	Search   string
	Ordering string
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

// isUniqueViolation Recognize a unique constraint error from either the
// sqlite or the mysql driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

// CreateLabelType Insert a new label type, failing with ErrDuplicateLabel
// when the text is already taken within the (project, kind) registry. The
// unique index backstops concurrent creations.
func CreateLabelType(db *gorm.DB, labelType *LabelType) error {
	var count int64
	err := db.Model(&LabelType{}).
		Where("project_id = ? AND kind = ? AND text = ?",
			labelType.ProjectID, labelType.Kind, labelType.Text).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("checking label uniqueness: %w", err)
	}
	if count > 0 {
		return ErrDuplicateLabel
	}
	if err := db.Create(labelType).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLabel
		}
		return fmt.Errorf("creating label type: %w", err)
	}
	return nil
}

// withUsageCount Base query selecting label types of a (project, kind) with
// the derived usage count joined in. The join condition excludes
// soft-deleted annotations so deletions are reflected immediately.
func withUsageCount(db *gorm.DB, projectID uint, kind LabelKind) *gorm.DB {
	table, fk := kind.AnnotationJoin()
	return db.Table("label_types").
		Select("label_types.*, COUNT(a.id) AS usage_count").
		Joins(fmt.Sprintf("LEFT JOIN %s a ON a.%s = label_types.id AND a.deleted_at IS NULL", table, fk)).
		Where("label_types.project_id = ? AND label_types.kind = ? AND label_types.deleted_at IS NULL",
			projectID, kind).
		Group("label_types.id")
}

// orderClause Translate an ordering expression such as "-usage_count,text"
// into SQL. Unknown fields are ignored rather than rejected.
func orderClause(ordering string) string {
	var parts []string
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		var col string
		switch field {
		case "created_at":
			col = "label_types.created_at"
		case "text":
			col = "label_types.text"
		case "usage_count":
			col = "usage_count"
		default:
			continue
		}
		if desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	if len(parts) == 0 {
		return "usage_count DESC, label_types.text"
	}
	return strings.Join(parts, ", ")
}

// ListLabelTypes Project-scoped listing with derived usage counts. Returns
// the page and the total number of matching label types.
func ListLabelTypes(db *gorm.DB, projectID uint, kind LabelKind, opts ListOptions) ([]LabelType, int64, error) {
	var total int64
	countQuery := db.Model(&LabelType{}).
		Where("project_id = ? AND kind = ?", projectID, kind)
	if opts.Search != "" {
		countQuery = countQuery.Where("text LIKE ?", "%"+opts.Search+"%")
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting label types: %w", err)
	}

	query := withUsageCount(db, projectID, kind)
	if opts.Search != "" {
		query = query.Where("label_types.text LIKE ?", "%"+opts.Search+"%")
	}
	if opts.Ordering == "" {
		opts.Ordering = "-usage_count,text"
	}
	query = query.Order(orderClause(opts.Ordering))

	if !opts.NoPage {
		limit := opts.Limit
		if limit <= 0 {
			limit = DefaultPageSize
		}
		if limit > MaxPageSize {
			limit = MaxPageSize
		}
		query = query.Limit(limit).Offset(opts.Offset)
	}

	var labelTypes []LabelType
	if err := query.Scan(&labelTypes).Error; err != nil {
		return nil, 0, fmt.Errorf("listing label types: %w", err)
	}
	return labelTypes, total, nil
}

// FindLabelType Look up a single label type within a project.
func FindLabelType(db *gorm.DB, projectID uint, id uint) (LabelType, error) {
	var labelType LabelType
	err := db.Where("project_id = ? AND id = ?", projectID, id).First(&labelType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LabelType{}, ErrNotFound
	}
	if err != nil {
		return LabelType{}, fmt.Errorf("finding label type: %w", err)
	}
	return labelType, nil
}

// BulkImportLabelTypes Apply a batch of label records atomically: when any
// record is invalid or collides with an existing text, nothing is persisted.
func BulkImportLabelTypes(db *gorm.DB, projectID uint, kind LabelKind, records []LabelTypeRecord) (int, error) {
	seen := make(map[string]bool, len(records))
	for _, record := range records {
		if record.Text == "" {
			return 0, ErrMalformedInput
		}
		if seen[record.Text] {
			return 0, ErrDuplicateLabel
		}
		seen[record.Text] = true
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			labelType := LabelType{
				ProjectID:       projectID,
				Kind:            kind,
				Text:            record.Text,
				PrefixKey:       record.PrefixKey,
				SuffixKey:       record.SuffixKey,
				BackgroundColor: record.BackgroundColor,
				TextColor:       record.TextColor,
			}
			if err := tx.Create(&labelType).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateLabel
				}
				return fmt.Errorf("importing label type %q: %w", record.Text, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// PopularLabelTypes The limit most used label types, ties broken by text.
// A project where nothing has been annotated yet falls back to the earliest
// created label types, so new projects still surface a default palette.
func PopularLabelTypes(db *gorm.DB, projectID uint, kind LabelKind, limit int) ([]LabelType, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	var labelTypes []LabelType
	err := withUsageCount(db, projectID, kind).
		Having("COUNT(a.id) > 0").
		Order("usage_count DESC, label_types.text").
		Limit(limit).
		Scan(&labelTypes).Error
	if err != nil {
		return nil, fmt.Errorf("listing popular label types: %w", err)
	}
	if len(labelTypes) > 0 {
		return labelTypes, nil
	}

	err = db.Where("project_id = ? AND kind = ?", projectID, kind).
		Order("created_at, id").
		Limit(limit).
		Find(&labelTypes).Error
	if err != nil {
		return nil, fmt.Errorf("listing fallback label types: %w", err)
	}
	return labelTypes, nil
}

// DeleteLabelTypes Remove the given label types from the project. Ids that
// do not exist in scope are ignored, so the operation is idempotent.
func DeleteLabelTypes(db *gorm.DB, projectID uint, kind LabelKind, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("project_id = ? AND kind = ? AND id IN ?", projectID, kind, ids).
		Delete(&LabelType{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting label types: %w", result.Error)
	}
	return result.RowsAffected, nil
}
