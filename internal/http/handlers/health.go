package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

// GET /
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Stripe service up",
		"version": Version,
	})
}
