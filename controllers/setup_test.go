package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"labelscope/middlewares"
	"labelscope/models"
)

const testSecret = "controller-test-secret"

// setupTestDB points the package-level models.DB at a fresh in-memory
// database for the duration of one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	models.DB = db
	return db
}

// testRouter builds the authenticated API surface used by the tests.
func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api/v1")
	api.Use(middlewares.JwtAuth(testSecret))
	{
		api.GET("/projects/:project_id/category-types", ListLabelTypes(models.LabelKindCategory))
		api.POST("/projects/:project_id/category-types", CreateLabelType(models.LabelKindCategory))
		api.DELETE("/projects/:project_id/category-types", BulkDeleteLabelTypes(models.LabelKindCategory))
		api.GET("/projects/:project_id/category-types/popular", PopularLabelTypes(models.LabelKindCategory))
		api.POST("/projects/:project_id/category-types/upload", UploadLabelTypes(models.LabelKindCategory))

		api.POST("/projects/:project_id/examples/:example_id/categories", CreateCategory)
		api.POST("/projects/:project_id/examples/:example_id/spans", CreateSpan)

		api.GET("/projects/:project_id/metrics/category-distribution", LabelDistribution(models.LabelKindCategory))
	}
	return r
}

// seedMember creates a user enrolled in the project with the given role and
// returns the user together with a valid token.
func seedMember(t *testing.T, db *gorm.DB, projectID uint, username, role string) (models.User, string) {
	t.Helper()

	user := models.User{Username: username}
	require.NoError(t, db.Create(&user).Error)
	member := models.Member{ProjectID: projectID, UserID: user.ID, Role: role}
	require.NoError(t, db.Create(&member).Error)

	token, err := middlewares.GenerateToken(testSecret, time.Hour, user.ID)
	require.NoError(t, err)
	return user, token
}

// doJSON performs a JSON request against the router.
func doJSON(t *testing.T, r *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doUpload performs a multipart file upload against the router.
func doUpload(t *testing.T, r *gin.Engine, url, token string, fileContents []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "labels.json")
	require.NoError(t, err)
	_, err = part.Write(fileContents)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
