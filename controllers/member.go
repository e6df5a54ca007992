package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"labelscope/models"
)

// ListMembers List a project's members with their usernames.
func ListMembers(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireMember(c, project) {
		return
	}

	var rows []struct {
		models.Member
		Username string `json:"username"`
	}
	models.DB.Table("members").
		Select("members.*, users.username AS username").
		Joins("JOIN users ON users.id = members.user_id").
		Where("members.project_id = ? AND members.deleted_at IS NULL", project.ID).
		Scan(&rows)

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

type AddMemberInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// AddMember Enroll an existing user into the project.
func AddMember(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}

	var input AddMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role == "" {
		input.Role = models.RoleAnnotator
	}

	member := models.Member{ProjectID: project.ID, UserID: input.UserID, Role: input.Role}
	if err := models.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is already a member"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": member})
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#%+-="

// generatePassword A random initial password for a provisioned annotator.
func generatePassword(length int) (string, error) {
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		password[i] = passwordAlphabet[n.Int64()]
	}
	return string(password), nil
}

// usernameFromName Derive a login from a full name: the lower-cased first
// word, suffixed with a counter when taken.
func usernameFromName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	base := strings.ToLower(parts[0])

	username := base
	for counter := 1; ; counter++ {
		var count int64
		models.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
		if count == 0 {
			return username
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

type BulkProvisionInput struct {
	Names []string `json:"names" binding:"required"`
}

type ProvisionedMember struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// BulkProvisionMembers Create annotator accounts from a list of full names
// and enroll them into the project. Existing usernames get a numeric suffix.
// The generated credentials are returned once, in the response, and are not
// recoverable afterwards.
func BulkProvisionMembers(c *gin.Context) {
	project, ok := getProject(c)
	if !ok {
		return
	}
	if !requireAdmin(c, project) {
		return
	}

	var input BulkProvisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var provisioned []ProvisionedMember
	for _, fullName := range input.Names {
		fullName = strings.TrimSpace(fullName)
		if fullName == "" {
			continue
		}

		username := usernameFromName(fullName)
		password, err := generatePassword(15)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		parts := strings.Fields(fullName)
		user := models.User{
			Username:  username,
			Password:  string(hash),
			LastName:  parts[0],
			FirstName: strings.Join(parts[1:], " "),
		}
		if err := models.DB.Create(&user).Error; err != nil {
			log.Warn(fmt.Sprintf("Cannot provision user %s: %s", username, err))
			continue
		}

		member := models.Member{ProjectID: project.ID, UserID: user.ID, Role: models.RoleAnnotator}
		models.DB.Create(&member)

		provisioned = append(provisioned, ProvisionedMember{
			FullName: fullName,
			Username: username,
			Password: password,
		})
	}

	log.Info(fmt.Sprintf("Provisioned %d annotators for project %d", len(provisioned), project.ID))
	c.JSON(http.StatusCreated, gin.H{"data": provisioned})
}
