package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// sessionIDKey is the key used to store the session the request was authenticated with.
const sessionIDKey = contextKey("sessionID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c, userIDKey)
}

// GetSessionIDFromContext retrieves the session ID of the authenticated request.
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c, sessionIDKey)
}

func stringFromRequestCtx(c *gin.Context, key contextKey) (string, bool) {
	if v, exists := c.Get(string(key)); exists {
		s, ok := v.(string)
		return s, ok && s != ""
	}
	s, ok := c.Request.Context().Value(key).(string)
	return s, ok && s != ""
}
