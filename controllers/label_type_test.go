package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscope/models"
)

func TestCreateAndListLabelTypes(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	_, adminToken := seedMember(t, db, project.ID, "admin", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/category-types", adminToken,
		gin.H{"text": "positive", "background_color": "#ff0000"})
	require.Equal(t, http.StatusCreated, w.Code)

	// A duplicate text in the same registry is a validation failure.
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/1/category-types", adminToken,
		gin.H{"text": "positive"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/1/category-types", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count   int64              `json:"count"`
		Results []models.LabelType `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "positive", page.Results[0].Text)
}

func TestListLabelTypesWithoutPagination(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	_, token := seedMember(t, db, project.ID, "annotator", models.RoleAnnotator)
	for _, text := range []string{"a", "b", "c"} {
		labelType := models.LabelType{ProjectID: project.ID, Kind: models.LabelKindCategory, Text: text}
		require.NoError(t, db.Create(&labelType).Error)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/projects/1/category-types?limit=none", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Disabling pagination returns a bare list instead of a page envelope.
	var labelTypes []models.LabelType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &labelTypes))
	assert.Len(t, labelTypes, 3)
}

func TestLabelTypeCreationPermissions(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	restricted := models.Project{Name: "restricted"}
	require.NoError(t, db.Create(&restricted).Error)
	_, annotatorToken := seedMember(t, db, restricted.ID, "annotator", models.RoleAnnotator)

	// Plain members cannot create label types by default...
	w := doJSON(t, r, http.MethodPost, "/api/v1/projects/1/category-types", annotatorToken,
		gin.H{"text": "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// ...unless the project policy allows it.
	open := models.Project{Name: "open", AllowMemberToCreateLabelType: true}
	require.NoError(t, db.Create(&open).Error)
	_, openToken := seedMember(t, db, open.ID, "annotator2", models.RoleAnnotator)
	w = doJSON(t, r, http.MethodPost, "/api/v1/projects/2/category-types", openToken,
		gin.H{"text": "yes"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Non-members see nothing at all.
	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/1/category-types", openToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadLabelTypes(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	_, adminToken := seedMember(t, db, project.ID, "admin", models.RoleAdmin)

	// camelCase keys are normalized before validation.
	payload := []byte(`[
		{"text": "person", "backgroundColor": "#ff0000"},
		{"text": "location", "backgroundColor": "#00ff00"}
	]`)
	w := doUpload(t, r, "/api/v1/projects/1/category-types/upload", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var labelTypes []models.LabelType
	require.NoError(t, db.Where("project_id = ?", project.ID).Order("text").Find(&labelTypes).Error)
	require.Len(t, labelTypes, 2)
	assert.Equal(t, "#00ff00", labelTypes[0].BackgroundColor)
}

func TestUploadLabelTypesMalformed(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	_, adminToken := seedMember(t, db, project.ID, "admin", models.RoleAdmin)

	w := doUpload(t, r, "/api/v1/projects/1/category-types/upload", adminToken, []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.LabelType{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUploadLabelTypesAtomicOnDuplicate(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	_, adminToken := seedMember(t, db, project.ID, "admin", models.RoleAdmin)

	existing := models.LabelType{ProjectID: project.ID, Kind: models.LabelKindCategory, Text: "person"}
	require.NoError(t, db.Create(&existing).Error)

	payload := []byte(`[{"text": "a"}, {"text": "b"}, {"text": "person"}, {"text": "d"}, {"text": "e"}]`)
	w := doUpload(t, r, "/api/v1/projects/1/category-types/upload", adminToken, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.LabelType{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "a failed batch persists nothing")
}

func TestBulkDeleteLabelTypes(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	_, adminToken := seedMember(t, db, project.ID, "admin", models.RoleAdmin)

	var ids []uint
	for _, text := range []string{"a", "b"} {
		labelType := models.LabelType{ProjectID: project.ID, Kind: models.LabelKindCategory, Text: text}
		require.NoError(t, db.Create(&labelType).Error)
		ids = append(ids, labelType.ID)
	}

	// Unknown ids are ignored and the status is 204 either way.
	w := doJSON(t, r, http.MethodDelete, "/api/v1/projects/1/category-types", adminToken,
		gin.H{"ids": append(ids, 999)})
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.LabelType{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPopularLabelTypesEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	project := models.Project{Name: "demo"}
	require.NoError(t, db.Create(&project).Error)
	user, token := seedMember(t, db, project.ID, "annotator", models.RoleAnnotator)

	popular := models.LabelType{ProjectID: project.ID, Kind: models.LabelKindCategory, Text: "popular"}
	idle := models.LabelType{ProjectID: project.ID, Kind: models.LabelKindCategory, Text: "idle"}
	require.NoError(t, db.Create(&popular).Error)
	require.NoError(t, db.Create(&idle).Error)
	category := models.Category{ExampleID: 1, UserID: user.ID, LabelID: popular.ID}
	require.NoError(t, db.Create(&category).Error)

	w := doJSON(t, r, http.MethodGet, "/api/v1/projects/1/category-types/popular?limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var labelTypes []models.LabelType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &labelTypes))
	require.Len(t, labelTypes, 1)
	assert.Equal(t, "popular", labelTypes[0].Text)
}
