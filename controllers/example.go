package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labelscope/models"
)

type CreateExampleInput struct {
	Text       string `json:"text"`
	UploadName string `json:"upload_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// CreateExample Add an example (a document or image) to a project.
func CreateExample(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireMember(c, project) {
		return
	}

	var input CreateExampleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	example := models.Example{
		ProjectID:  project.ID,
		Text:       input.Text,
		UploadName: input.UploadName,
		Width:      input.Width,
		Height:     input.Height,
	}
	if err := models.DB.Create(&example).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": example})
}

// FindExamples List a project's examples.
func FindExamples(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireMember(c, project) {
		return
	}

	var examples []models.Example
	models.DB.Where("project_id = ?", project.ID).Find(&examples)
	c.JSON(http.StatusOK, gin.H{"data": examples})
}

// FindExample Fetch one example.
func FindExample(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireMember(c, project) {
		return
	}

	example, ok := getExample(c, project)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": example})
}

// DeleteExample Delete an example; its annotations are removed by the
// cascading delete of the persistence layer.
func DeleteExample(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}

	example, ok := getExample(c, project)
	if !ok {
		return
	}
	models.DB.Delete(&example)
	c.JSON(http.StatusOK, gin.H{"data": true})
}

// getExample Resolve the example_id path parameter within the project.
func getExample(c *gin.Context, project models.Project) (models.Example, bool) {
	exampleID, ok := uintParam(c, "example_id")
	if !ok {
		return models.Example{}, false
	}
	var example models.Example
	err := models.DB.
		Where("project_id = ? AND id = ?", project.ID, exampleID).
		First(&example).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Example not found!"})
		return models.Example{}, false
	}
	return example, true
}
