package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Message string `json:"message"`
}

// Recovery turns a panic into a JSON 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[Recovery] panic serving %s %s (request %s): %v",
			c.Request.Method, c.Request.URL.Path, c.GetString(ContextRequestID), recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
	})
}

// MethodNotAllowed answers verbs a known path does not serve
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Message: "method not allowed"})
	}
}

// NotFound answers unknown routes
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "not found"})
	}
}
