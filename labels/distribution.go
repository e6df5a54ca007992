package labels

import (
	"fmt"

	"gorm.io/gorm"

	"labelscope/models"
)

// Distribution maps usernames to per-label-text annotation counts.
type Distribution map[string]map[string]int

// CalcLabelDistribution computes, for the given examples and members, how
// often each member used each label of the given kind. The result is
// sparse: every member is present, but a member's map only contains labels
// they actually used. Pre-populating zeroes for every member and label type
// would blow up to an unusable volume of entries on large projects.
//
// One implementation serves categories, spans and relation types alike; the
// kind selects which annotation relation and label-type foreign key to
// aggregate over.
func CalcLabelDistribution(db *gorm.DB, exampleIDs []uint, members []models.User, kind models.LabelKind) (Distribution, error) {
	distribution := make(Distribution, len(members))
	for _, member := range members {
		distribution[member.Username] = map[string]int{}
	}
	if len(exampleIDs) == 0 || len(members) == 0 {
		return distribution, nil
	}

	table, fk := kind.AnnotationJoin()
	var rows []struct {
		Username  string
		LabelText string
		N         int
	}
	err := db.Table(table+" a").
		Select("users.username AS username, label_types.text AS label_text, COUNT(a.id) AS n").
		Joins("JOIN users ON users.id = a.user_id").
		Joins(fmt.Sprintf("JOIN label_types ON label_types.id = a.%s AND label_types.deleted_at IS NULL", fk)).
		Where("a.example_id IN ? AND a.deleted_at IS NULL", exampleIDs).
		Group("users.username, label_types.text").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating %s distribution: %w", kind, err)
	}

	for _, row := range rows {
		// Annotations by users outside the member set are not reported.
		if _, ok := distribution[row.Username]; !ok {
			continue
		}
		distribution[row.Username][row.LabelText] = row.N
	}
	return distribution, nil
}
