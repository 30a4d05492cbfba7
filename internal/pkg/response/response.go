package response

import "github.com/gin-gonic/gin"

// Message writes {message, <key>: value}.
func Message(c *gin.Context, statusCode int, message string, key string, value any) {
	c.JSON(statusCode, gin.H{
		"message": message,
		key:       value,
	})
}

// Error writes {message, error}. err may be nil, a string, or an error.
func Error(c *gin.Context, statusCode int, message string, err any) {
	body := gin.H{"message": message}
	switch e := err.(type) {
	case nil:
	case error:
		body["error"] = e.Error()
	default:
		body["error"] = e
	}
	c.JSON(statusCode, body)
}

// ErrorWithDetails writes {message, error, details}.
func ErrorWithDetails(c *gin.Context, statusCode int, message string, err error, details any) {
	body := gin.H{
		"message": message,
		"details": details,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(statusCode, body)
}
