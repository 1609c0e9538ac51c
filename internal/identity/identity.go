package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxSubjectID = "subject_id"

// Required asserts the caller's identity from the X-Subject-Id header set by
// the trusted gateway. The core never validates credentials itself; a missing
// subject means the gateway did not authenticate the caller.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := strings.TrimSpace(c.GetHeader("X-Subject-Id"))
		if sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing subject"})
			c.Abort()
			return
		}

		c.Set(CtxSubjectID, sub)
		c.Next()
	}
}

func Subject(c *gin.Context) string {
	v := c.GetString(CtxSubjectID)
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}
