package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"labelscope/labels"
	"labelscope/middlewares"
	"labelscope/models"
)

// encodePoints Store polygon vertices as a JSON array string.
func encodePoints(points []float64) string {
	encoded, _ := json.Marshal(points)
	return string(encoded)
}

// createAnnotation Run one candidate through the admissibility gate and
// answer 201, 409 for a rejection, or 500 for a scope resolution failure.
func createAnnotation(c *gin.Context, project models.Project, label models.Label) {
	err := labels.CreateAnnotation(models.DB, project, label)
	if labels.IsRejection(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot annotate here"})
		return
	}
	if err != nil {
		log.Warn("Error creating annotation: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": label})
}

// annotationTarget Shared preamble of every annotation handler: resolve the
// project and example and check membership.
func annotationTarget(c *gin.Context) (models.Project, models.Example, bool) {
	project, ok := getProject(c)
	if !ok {
		return models.Project{}, models.Example{}, false
	}
	if !requireMember(c, project) {
		return models.Project{}, models.Example{}, false
	}
	example, ok := getExample(c, project)
	if !ok {
		return models.Project{}, models.Example{}, false
	}
	return project, example, true
}

type CreateCategoryInput struct {
	LabelID uint `json:"label_id" binding:"required"`
}

// CreateCategory Attach a classification label to an example.
func CreateCategory(c *gin.Context) {
	project, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{
		ExampleID: example.ID,
		UserID:    middlewares.CurrentUserID(c),
		LabelID:   input.LabelID,
	}
	createAnnotation(c, project, &category)
}

type CreateSpanInput struct {
	LabelID     uint `json:"label_id" binding:"required"`
	StartOffset int  `json:"start_offset"`
	EndOffset   int  `json:"end_offset"`
}

// CreateSpan Attach a span label to a text range of an example.
func CreateSpan(c *gin.Context) {
	project, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	var input CreateSpanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.StartOffset < 0 || input.StartOffset >= input.EndOffset {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_offset must be smaller than end_offset"})
		return
	}
	span := models.Span{
		ExampleID:   example.ID,
		UserID:      middlewares.CurrentUserID(c),
		LabelID:     input.LabelID,
		StartOffset: input.StartOffset,
		EndOffset:   input.EndOffset,
	}
	createAnnotation(c, project, &span)
}

type CreateTextLabelInput struct {
	Text string `json:"text" binding:"required"`
}

// CreateTextLabel Attach a free-form text annotation to an example.
func CreateTextLabel(c *gin.Context) {
	project, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	var input CreateTextLabelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	textLabel := models.TextLabel{
		ExampleID: example.ID,
		UserID:    middlewares.CurrentUserID(c),
		Text:      input.Text,
	}
	createAnnotation(c, project, &textLabel)
}

type CreateRelationInput struct {
	FromID uint `json:"from_id" binding:"required"`
	ToID   uint `json:"to_id" binding:"required"`
	TypeID uint `json:"type_id" binding:"required"`
}

// CreateRelation Connect two span annotations with a typed relation.
func CreateRelation(c *gin.Context) {
	project, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	var input CreateRelationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var endpoints int64
	models.DB.Model(&models.Span{}).
		Where("example_id = ? AND id IN ?", example.ID, []uint{input.FromID, input.ToID}).
		Count(&endpoints)
	if endpoints != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relation endpoints must be spans of this example"})
		return
	}
	relation := models.Relation{
		ExampleID: example.ID,
		UserID:    middlewares.CurrentUserID(c),
		FromID:    input.FromID,
		ToID:      input.ToID,
		TypeID:    input.TypeID,
	}
	createAnnotation(c, project, &relation)
}

type CreateBoundingBoxInput struct {
	LabelID uint    `json:"label_id" binding:"required"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width" binding:"required"`
	Height  float64 `json:"height" binding:"required"`
}

// CreateBoundingBox Attach a rectangle to an image example.
func CreateBoundingBox(c *gin.Context) {
	project, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	var input CreateBoundingBoxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	boundingBox := models.BoundingBox{
		ExampleID: example.ID,
		UserID:    middlewares.CurrentUserID(c),
		LabelID:   input.LabelID,
		X:         input.X,
		Y:         input.Y,
		Width:     input.Width,
		Height:    input.Height,
	}
	createAnnotation(c, project, &boundingBox)
}

type CreateSegmentationInput struct {
	LabelID uint      `json:"label_id" binding:"required"`
	Points  []float64 `json:"points" binding:"required"`
}

// CreateSegmentation Attach a polygon to an image example.
func CreateSegmentation(c *gin.Context) {
	project, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	var input CreateSegmentationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Points) < 6 || len(input.Points)%2 != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points must hold at least three x,y pairs"})
		return
	}
	segmentation := models.Segmentation{
		ExampleID: example.ID,
		UserID:    middlewares.CurrentUserID(c),
		LabelID:   input.LabelID,
		Points:    encodePoints(input.Points),
	}
	createAnnotation(c, project, &segmentation)
}

// FindAnnotations List every annotation on the example, grouped by kind.
// The listing is not scoped: reviewing existing annotations shows all
// members' work, only the admissibility decision is scope-restricted.
func FindAnnotations(c *gin.Context) {
	_, example, ok := annotationTarget(c)
	if !ok {
		return
	}

	var categories []models.Category
	var spans []models.Span
	var textLabels []models.TextLabel
	var relations []models.Relation
	var boundingBoxes []models.BoundingBox
	var segmentations []models.Segmentation

	models.DB.Where("example_id = ?", example.ID).Find(&categories)
	models.DB.Where("example_id = ?", example.ID).Find(&spans)
	models.DB.Where("example_id = ?", example.ID).Find(&textLabels)
	models.DB.Where("example_id = ?", example.ID).Find(&relations)
	models.DB.Where("example_id = ?", example.ID).Find(&boundingBoxes)
	models.DB.Where("example_id = ?", example.ID).Find(&segmentations)

	c.JSON(http.StatusOK, gin.H{
		"categories":     categories,
		"spans":          spans,
		"texts":          textLabels,
		"relations":      relations,
		"bounding_boxes": boundingBoxes,
		"segmentations":  segmentations,
	})
}

// deleteOwnAnnotation Delete one annotation row owned by the acting user.
func deleteOwnAnnotation(c *gin.Context, model interface{}) {
	_, example, ok := annotationTarget(c)
	if !ok {
		return
	}
	annotationID, ok := uintParam(c, "annotation_id")
	if !ok {
		return
	}

	result := models.DB.
		Where("example_id = ? AND user_id = ? AND id = ?",
			example.ID, middlewares.CurrentUserID(c), annotationID).
		Delete(model)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": true})
}

func DeleteCategory(c *gin.Context)     { deleteOwnAnnotation(c, &models.Category{}) }
func DeleteSpan(c *gin.Context)         { deleteOwnAnnotation(c, &models.Span{}) }
func DeleteTextLabel(c *gin.Context)    { deleteOwnAnnotation(c, &models.TextLabel{}) }
func DeleteRelation(c *gin.Context)     { deleteOwnAnnotation(c, &models.Relation{}) }
func DeleteBoundingBox(c *gin.Context)  { deleteOwnAnnotation(c, &models.BoundingBox{}) }
func DeleteSegmentation(c *gin.Context) { deleteOwnAnnotation(c, &models.Segmentation{}) }
