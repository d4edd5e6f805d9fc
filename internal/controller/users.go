package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/repository"
	"taskdeck/pkg/logger"
)

// CreateUser registers a display name, or echoes the existing record when
// the name is already known.
func CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be empty"})
		return
	}

	user, err := repository.EnsureUser(ctx, name)
	if err != nil {
		logger.Error(ctx, "CreateUser repository failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, user)
}
