package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"labelscope/models"
	"labelscope/utils"
)

// canCreateLabelTypes Label types are created by project admins, or by any
// member when the project policy allows it.
func canCreateLabelTypes(c *gin.Context, project models.Project) bool {
	role := currentRole(c, project)
	if role == models.RoleAdmin {
		return true
	}
	return role != "" && project.AllowMemberToCreateLabelType
}

// ListLabelTypes List a project's label types of one kind with derived
// usage counts. Supports limit/offset pagination (disable with limit=none
// or no_page=true), text search via q and ordering by created_at, text or
// usage_count.
func ListLabelTypes(kind models.LabelKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := getProject(c)
		if !ok {
			return
		}
		if !requireMember(c, project) {
			return
		}

		opts := models.ListOptions{
			Search:   c.Query("q"),
			Ordering: c.Query("ordering"),
		}
		limitParam := c.Query("limit")
		if limitParam == "none" || c.Query("no_page") == "true" {
			opts.NoPage = true
		} else if limitParam != "" {
			opts.Limit, _ = strconv.Atoi(limitParam)
		}
		if offset := c.Query("offset"); offset != "" {
			opts.Offset, _ = strconv.Atoi(offset)
		}

		labelTypes, total, err := models.ListLabelTypes(models.DB, project.ID, kind, opts)
		if err != nil {
			log.Warn(fmt.Sprintf("Error listing %s types: %s", kind, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if opts.NoPage {
			c.JSON(http.StatusOK, labelTypes)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": total, "results": labelTypes})
	}
}

type LabelTypeInput struct {
	Text            string `json:"text" binding:"required"`
	PrefixKey       string `json:"prefix_key"`
	SuffixKey       string `json:"suffix_key"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// CreateLabelType Create a single label type.
func CreateLabelType(kind models.LabelKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := getProject(c)
		if !ok {
			return
		}
		if !canCreateLabelTypes(c, project) {
			c.JSON(http.StatusForbidden, gin.H{"error": "label type creation is restricted to project admins"})
			return
		}

		var input LabelTypeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		labelType := models.LabelType{
			ProjectID:       project.ID,
			Kind:            kind,
			Text:            input.Text,
			PrefixKey:       input.PrefixKey,
			SuffixKey:       input.SuffixKey,
			BackgroundColor: input.BackgroundColor,
			TextColor:       input.TextColor,
		}
		err := models.CreateLabelType(models.DB, &labelType)
		if errors.Is(err, models.ErrDuplicateLabel) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": labelType})
	}
}

// FindLabelType Fetch one label type.
func FindLabelType(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireMember(c, project) {
		return
	}
	labelID, ok := uintParam(c, "label_id")
	if !ok {
		return
	}

	labelType, err := models.FindLabelType(models.DB, project.ID, labelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": labelType})
}

type UpdateLabelTypeInput struct {
	Text            *string `json:"text"`
	PrefixKey       *string `json:"prefix_key"`
	SuffixKey       *string `json:"suffix_key"`
	BackgroundColor *string `json:"background_color"`
	TextColor       *string `json:"text_color"`
}

// UpdateLabelType Patch a label type. A text change must keep the
// (project, kind, text) uniqueness.
func UpdateLabelType(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}
	labelID, ok := uintParam(c, "label_id")
	if !ok {
		return
	}

	labelType, err := models.FindLabelType(models.DB, project.ID, labelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}

	var input UpdateLabelTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Text != nil && *input.Text != labelType.Text {
		var count int64
		models.DB.Model(&models.LabelType{}).
			Where("project_id = ? AND kind = ? AND text = ?", project.ID, labelType.Kind, *input.Text).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": models.ErrDuplicateLabel.Error()})
			return
		}
		labelType.Text = *input.Text
	}
	if input.PrefixKey != nil {
		labelType.PrefixKey = *input.PrefixKey
	}
	if input.SuffixKey != nil {
		labelType.SuffixKey = *input.SuffixKey
	}
	if input.BackgroundColor != nil {
		labelType.BackgroundColor = *input.BackgroundColor
	}
	if input.TextColor != nil {
		labelType.TextColor = *input.TextColor
	}

	if err := models.DB.Save(&labelType).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": labelType})
}

// DeleteLabelType Delete one label type.
func DeleteLabelType(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}
	labelID, ok := uintParam(c, "label_id")
	if !ok {
		return
	}

	labelType, err := models.FindLabelType(models.DB, project.ID, labelID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found!"})
		return
	}
	models.DB.Delete(&labelType)
	c.Status(http.StatusNoContent)
}

type BulkDeleteInput struct {
	Ids []uint `json:"ids" binding:"required"`
}

// BulkDeleteLabelTypes Delete a set of label types. Ids outside the project
// are ignored; the response is 204 regardless of how many existed.
func BulkDeleteLabelTypes(kind models.LabelKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := getProject(c)
		if !ok {
			return
		}
		if !requireAdmin(c, project) {
			return
		}

		var input BulkDeleteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := models.DeleteLabelTypes(models.DB, project.ID, kind, input.Ids); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// PopularLabelTypes The most used label types of a kind, falling back to
// the earliest created ones for projects without annotations.
func PopularLabelTypes(kind models.LabelKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := getProject(c)
		if !ok {
			return
		}
		if !requireMember(c, project) {
			return
		}

		limit := models.DefaultPageSize
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				limit = parsed
			}
		}

		labelTypes, err := models.PopularLabelTypes(models.DB, project.ID, kind, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, labelTypes)
	}
}

// UploadLabelTypes Import label types from an uploaded JSON file. Keys may
// use camelCase; they are normalized to snake_case before validation. The
// batch applies atomically: on any malformed record or duplicate text,
// nothing is persisted.
func UploadLabelTypes(kind models.LabelKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, ok := getProject(c)
		if !ok {
			return
		}
		if !requireAdmin(c, project) {
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empty content"})
			return
		}
		reader, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer reader.Close()

		var rawRecords []map[string]interface{}
		if err := json.NewDecoder(reader).Decode(&rawRecords); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "The file format is invalid."})
			return
		}

		records := make([]models.LabelTypeRecord, 0, len(rawRecords))
		for _, raw := range rawRecords {
			normalized, err := json.Marshal(utils.CamelToSnakeKeys(raw))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "The file format is invalid."})
				return
			}
			var record models.LabelTypeRecord
			if err := json.Unmarshal(normalized, &record); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "The file format is invalid."})
				return
			}
			records = append(records, record)
		}

		count, err := models.BulkImportLabelTypes(models.DB, project.ID, kind, records)
		if errors.Is(err, models.ErrMalformedInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, models.ErrDuplicateLabel) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Warn(fmt.Sprintf("Error importing %s types: %s", kind, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"count": count})
	}
}
