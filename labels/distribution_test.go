package labels

import (
	"testing"

	"github.com/stretchr/testify/require"

	"labelscope/models"
)

func TestCalcLabelDistributionSparsity(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 3)
	positive := seedLabelType(t, db, 1, models.LabelKindCategory, "positive")
	negative := seedLabelType(t, db, 1, models.LabelKindCategory, "negative")

	// Only the first member has labeled anything.
	for _, category := range []models.Category{
		{ExampleID: 1, UserID: users[0].ID, LabelID: positive.ID},
		{ExampleID: 2, UserID: users[0].ID, LabelID: positive.ID},
		{ExampleID: 3, UserID: users[0].ID, LabelID: negative.ID},
	} {
		require.NoError(t, db.Create(&category).Error)
	}

	distribution, err := CalcLabelDistribution(db, []uint{1, 2, 3}, users, models.LabelKindCategory)
	require.NoError(t, err)

	// Every member gets an entry, but only the active one is non-empty.
	require.Len(t, distribution, 3)
	require.Equal(t, map[string]int{"positive": 2, "negative": 1}, distribution[users[0].Username])
	require.Empty(t, distribution[users[1].Username])
	require.Empty(t, distribution[users[2].Username])
}

func TestCalcLabelDistributionFiltersExamples(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 1)
	positive := seedLabelType(t, db, 1, models.LabelKindCategory, "positive")

	inRange := models.Category{ExampleID: 1, UserID: users[0].ID, LabelID: positive.ID}
	outOfRange := models.Category{ExampleID: 99, UserID: users[0].ID, LabelID: positive.ID}
	require.NoError(t, db.Create(&inRange).Error)
	require.NoError(t, db.Create(&outOfRange).Error)

	distribution, err := CalcLabelDistribution(db, []uint{1}, users, models.LabelKindCategory)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"positive": 1}, distribution[users[0].Username])
}

func TestCalcLabelDistributionRelationKind(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 2)
	worksFor := seedLabelType(t, db, 1, models.LabelKindRelation, "works_for")

	for i := 0; i < 2; i++ {
		relation := models.Relation{ExampleID: 1, UserID: users[0].ID, FromID: 1, ToID: 2, TypeID: worksFor.ID}
		require.NoError(t, db.Create(&relation).Error)
	}

	distribution, err := CalcLabelDistribution(db, []uint{1}, users, models.LabelKindRelation)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"works_for": 2}, distribution[users[0].Username])
	require.Empty(t, distribution[users[1].Username])
}

func TestCalcLabelDistributionEmptyInputs(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 2)

	distribution, err := CalcLabelDistribution(db, nil, users, models.LabelKindCategory)
	require.NoError(t, err)
	require.Len(t, distribution, 2)
	for _, perLabel := range distribution {
		require.Empty(t, perLabel)
	}

	distribution, err = CalcLabelDistribution(db, []uint{1}, nil, models.LabelKindCategory)
	require.NoError(t, err)
	require.Empty(t, distribution)
}

func TestCalcLabelDistributionIgnoresDeleted(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 1)
	positive := seedLabelType(t, db, 1, models.LabelKindCategory, "positive")

	category := models.Category{ExampleID: 1, UserID: users[0].ID, LabelID: positive.ID}
	require.NoError(t, db.Create(&category).Error)
	require.NoError(t, db.Delete(&category).Error)

	distribution, err := CalcLabelDistribution(db, []uint{1}, users, models.LabelKindCategory)
	require.NoError(t, err)
	require.Empty(t, distribution[users[0].Username])
}
