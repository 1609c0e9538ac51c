package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode switches gin to release mode outside of development, which
// silences the per-route startup banner and debug request logging. Any
// environment other than production keeps the default debug mode.
func SetGinMode(env string) {
	switch env {
	case "production", "staging":
		gin.SetMode(gin.ReleaseMode)
	}
}
