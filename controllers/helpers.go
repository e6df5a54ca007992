package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labelscope/middlewares"
	"labelscope/models"
)

// uintParam Parse a numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}

// getProject Resolve the project_id path parameter to a project, answering
// 404 on its own when the project does not exist.
func getProject(c *gin.Context) (models.Project, bool) {
	projectID, ok := uintParam(c, "project_id")
	if !ok {
		return models.Project{}, false
	}
	var project models.Project
	if err := models.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found!"})
		return models.Project{}, false
	}
	return project, true
}

// currentRole The acting user's role in the project, empty when they are
// not a member.
func currentRole(c *gin.Context, project models.Project) string {
	var member models.Member
	err := models.DB.
		Where("project_id = ? AND user_id = ?", project.ID, middlewares.CurrentUserID(c)).
		First(&member).Error
	if err != nil {
		return ""
	}
	return member.Role
}

// requireMember Answer 403 unless the acting user belongs to the project.
func requireMember(c *gin.Context, project models.Project) bool {
	if currentRole(c, project) == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this project"})
		return false
	}
	return true
}

// requireAdmin Answer 403 unless the acting user administers the project.
func requireAdmin(c *gin.Context, project models.Project) bool {
	if currentRole(c, project) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "project admin role required"})
		return false
	}
	return true
}
