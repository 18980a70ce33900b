package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedden/feedden/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, resolver CallerResolver) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	setupRoutes(r, handler, resolver)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, resolver CallerResolver) {
	r.GET("/health", handler.GetHealth)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "feedden",
			"version": cfg.GetVersion(),
			"endpoints": map[string]string{
				"refresh":       "POST /refresh",
				"posts":         "GET /posts",
				"subscriptions": "POST|DELETE /subscriptions",
				"folders":       "POST|DELETE /folders",
				"folder_list":   "GET /user/folders",
				"status":        "POST /status",
				"health":        "GET /health",
			},
		})
	})

	authed := r.Group("/")
	authed.Use(authMiddleware(handler, resolver))
	{
		authed.POST("/refresh", handler.RefreshFolder)
		authed.GET("/posts", handler.ListPosts)
		authed.POST("/subscriptions", handler.AddSubscription)
		authed.DELETE("/subscriptions", handler.RemoveSubscription)
		authed.POST("/folders", handler.AddFolder)
		authed.DELETE("/folders", handler.RemoveFolder)
		authed.GET("/user/folders", handler.ListFolders)
		authed.POST("/status", handler.SetStatus)
	}

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware resolves the caller and guarantees the account row exists
// so foreign keys on folders and statuses have a target.
func authMiddleware(handler *Handler, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolver(c.Request)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Caller could not be resolved",
			})
			c.Abort()
			return
		}

		if err := handler.accountRepo.Ensure(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal error",
			})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
