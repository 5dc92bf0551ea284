package handler

import "github.com/gin-gonic/gin"

// The frontend expects every response as {success, message?, data?}.

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondErr(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
