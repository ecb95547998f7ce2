package devbackend

import (
	"time"

	"auction-console/utils"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the REST surface the console talks to
func NewRouter(service AuctionService) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger)

	h := NewHandler(service)

	router.POST("/register/", h.RegisterHandler)
	router.POST("/login/", h.LoginHandler)

	items := router.Group("/items", RequireBearer(service))
	{
		items.GET("/", h.ListItemsHandler)
		items.POST("/", h.CreateItemHandler)
		items.GET("/:item_id", h.GetItemHandler)
		items.PUT("/:item_id", h.UpdateItemHandler)
		items.DELETE("/:item_id", h.DeleteItemHandler)
		items.POST("/:item_id/bid/", h.PlaceBidHandler)
	}

	return router
}

func requestLogger(c *gin.Context) {
	start := time.Now()

	c.Next()

	utils.Debug("devbackend request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}
