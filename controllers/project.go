package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labelscope/middlewares"
	"labelscope/models"
)

type CreateProjectInput struct {
	Name                         string `json:"name" binding:"required"`
	Description                  string `json:"description"`
	SingleClassClassification    bool   `json:"single_class_classification"`
	AllowOverlapping             bool   `json:"allow_overlapping"`
	CollaborativeAnnotation      bool   `json:"collaborative_annotation"`
	AllowMemberToCreateLabelType bool   `json:"allow_member_to_create_label_type"`
}

// CreateProject Create a project; the creator becomes its admin.
func CreateProject(c *gin.Context) {
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		Name:                         input.Name,
		Description:                  input.Description,
		SingleClassClassification:    input.SingleClassClassification,
		AllowOverlapping:             input.AllowOverlapping,
		CollaborativeAnnotation:      input.CollaborativeAnnotation,
		AllowMemberToCreateLabelType: input.AllowMemberToCreateLabelType,
	}
	if err := models.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	member := models.Member{
		ProjectID: project.ID,
		UserID:    middlewares.CurrentUserID(c),
		Role:      models.RoleAdmin,
	}
	models.DB.Create(&member)

	c.JSON(http.StatusCreated, gin.H{"data": project})
}

// FindProjects List the projects the acting user is a member of.
func FindProjects(c *gin.Context) {
	var projects []models.Project
	models.DB.
		Joins("JOIN members ON members.project_id = projects.id AND members.deleted_at IS NULL").
		Where("members.user_id = ?", middlewares.CurrentUserID(c)).
		Find(&projects)

	c.JSON(http.StatusOK, gin.H{"data": projects})
}

// FindProject Fetch one project.
func FindProject(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireMember(c, project) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

type UpdateProjectInput struct {
	Name                         *string `json:"name"`
	Description                  *string `json:"description"`
	SingleClassClassification    *bool   `json:"single_class_classification"`
	AllowOverlapping             *bool   `json:"allow_overlapping"`
	CollaborativeAnnotation      *bool   `json:"collaborative_annotation"`
	AllowMemberToCreateLabelType *bool   `json:"allow_member_to_create_label_type"`
}

// UpdateProject Patch project fields and policy flags.
func UpdateProject(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}

	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.SingleClassClassification != nil {
		project.SingleClassClassification = *input.SingleClassClassification
	}
	if input.AllowOverlapping != nil {
		project.AllowOverlapping = *input.AllowOverlapping
	}
	if input.CollaborativeAnnotation != nil {
		project.CollaborativeAnnotation = *input.CollaborativeAnnotation
	}
	if input.AllowMemberToCreateLabelType != nil {
		project.AllowMemberToCreateLabelType = *input.AllowMemberToCreateLabelType
	}

	if err := models.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

// DeleteProject Delete a project.
func DeleteProject(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}

	models.DB.Delete(&project)
	c.JSON(http.StatusOK, gin.H{"data": true})
}
