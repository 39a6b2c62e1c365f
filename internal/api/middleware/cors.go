package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS allows browser clients to read feeds and submit observations.
// An empty origin list allows every origin. Credentials travel in the
// Authorization header, never cookies.
func SetupCORS(allowOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: len(allowOrigins) == 0,
		AllowOrigins:    allowOrigins,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", REQUEST_ID_HEADER},
		ExposeHeaders:   []string{"Content-Length", REQUEST_ID_HEADER},
		MaxAge:          12 * time.Hour,
	})
}
