package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// allowedOrigins mirrors the front-end deployments that talk to this API.
var allowedOrigins = []string{
	"http://localhost",
	"http://localhost:80",
	"https://localhost",
	"http://localhost:3000",
	"https://localhost:3000",
	"http://127.0.0.1",
	"http://127.0.0.1:3000",
}

// CORSMiddleware applies the cross-origin policy to every route.
func CORSMiddleware() gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         3600,
	})

	return func(c *gin.Context) {
		policy.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
