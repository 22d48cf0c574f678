package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError writes the standard failure envelope.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "error": message})
}

// RespondWithOK writes the standard success envelope with an optional payload.
func RespondWithOK(c *gin.Context, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(200, body)
}
