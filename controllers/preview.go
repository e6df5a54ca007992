package controllers

import (
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"labelscope/cache"
	"labelscope/models"
	"labelscope/utils"
)

// previewTTL Rendered previews are served from cache for a short while, so
// a preview can lag a freshly created annotation by up to this long.
const previewTTL = 30 * time.Second

// AnnotationPreview Rasterize an example's geometry annotations (bounding
// boxes and segmentation polygons) to a PNG, colored by their label type.
// An optional width parameter scales the output down.
func AnnotationPreview(previewCache *cache.LocalCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, example, ok := annotationTarget(c)
		if !ok {
			return
		}
		if example.Width <= 0 || example.Height <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "example has no image dimensions"})
			return
		}

		width := 0
		if raw := c.Query("width"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				width = parsed
			}
		}

		cacheKey := fmt.Sprintf("%d-%d", example.ID, width)
		if cached, err := previewCache.Read(cacheKey); err == nil {
			c.Data(http.StatusOK, "image/png", cached.Png)
			return
		}

		colors := labelColors(example.ProjectID)

		var boundingBoxes []models.BoundingBox
		models.DB.Where("example_id = ?", example.ID).Find(&boundingBoxes)
		boxes := make([]utils.Box, 0, len(boundingBoxes))
		for _, bb := range boundingBoxes {
			boxes = append(boxes, utils.Box{
				X: bb.X, Y: bb.Y, W: bb.Width, H: bb.Height,
				Color: colorOf(colors, bb.LabelID),
			})
		}

		var segmentations []models.Segmentation
		models.DB.Where("example_id = ?", example.ID).Find(&segmentations)
		polygons := make([]utils.Polygon, 0, len(segmentations))
		for _, seg := range segmentations {
			var points []float64
			if err := json.Unmarshal([]byte(seg.Points), &points); err != nil {
				log.Warn("Skipping segmentation with unparseable points: ", seg.ID)
				continue
			}
			polygons = append(polygons, utils.Polygon{
				Points: points,
				Color:  colorOf(colors, seg.LabelID),
			})
		}

		img := utils.RenderAnnotations(example.Width, example.Height, boxes, polygons)
		if width > 0 {
			img = utils.ResizeImage(img, width)
		}

		buffer, err := utils.ImageToPngBuffer(img)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		previewCache.Update(
			cache.NamedPreview{Id: cacheKey, Png: *buffer},
			time.Now().Add(previewTTL).Unix(),
		)
		c.Data(http.StatusOK, "image/png", *buffer)
	}
}

// colorOf A label type's color, or opaque red for unknown ids.
func colorOf(colors map[uint]color.RGBA, id uint) color.RGBA {
	if c, ok := colors[id]; ok {
		return c
	}
	return color.RGBA{R: 0xff, A: 0xff}
}

// labelColors Background colors of a project's label types, by id.
func labelColors(projectID uint) map[uint]color.RGBA {
	var labelTypes []models.LabelType
	models.DB.Where("project_id = ?", projectID).Find(&labelTypes)

	colors := make(map[uint]color.RGBA, len(labelTypes))
	for _, labelType := range labelTypes {
		colors[labelType.ID] = utils.ParseHexColor(labelType.BackgroundColor)
	}
	return colors
}
