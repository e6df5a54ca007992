package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"labelscope/labels"
	"labelscope/models"
)

// LabelDistribution Per-member label usage over the whole project for one
// label kind, as computed by the distribution aggregator. Members who have
// not annotated anything appear with an empty map.
func LabelDistribution(kind models.LabelKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := getProject(c)
		if !ok {
			return
		}
		if !requireMember(c, project) {
			return
		}

		var exampleIDs []uint
		err := models.DB.Model(&models.Example{}).
			Where("project_id = ?", project.ID).
			Pluck("id", &exampleIDs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var members []models.User
		err = models.DB.
			Joins("JOIN members ON members.user_id = users.id AND members.deleted_at IS NULL").
			Where("members.project_id = ?", project.ID).
			Find(&members).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		distribution, err := labels.CalcLabelDistribution(models.DB, exampleIDs, members, kind)
		if err != nil {
			log.Warn(fmt.Sprintf("Error aggregating %s distribution: %s", kind, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, distribution)
	}
}
