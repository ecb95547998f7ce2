package server

import (
	"auction-console/internal/webui"
	handler "auction-console/services/console/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the console
func SetupRouter(consoleHandler *handler.ConsoleHandler, sessions SessionOptions, bundle webui.Bundle) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.SetHTMLTemplate(bundle.Templates)
	router.StaticFS("/static", bundle.StaticFS)
	router.GET("/healthz", consoleHandler.HealthHandler)

	pages := router.Group("/", SessionMiddleware(sessions))
	{
		pages.GET("", consoleHandler.LandingHandler)
		pages.GET("register", consoleHandler.RegisterPageHandler)
		pages.POST("register", consoleHandler.RegisterHandler)
		pages.GET("login", consoleHandler.LoginPageHandler)
		pages.POST("login", consoleHandler.LoginHandler)
		pages.POST("logout", consoleHandler.LogoutHandler)
	}

	guarded := pages.Group("", AuthRequired)
	{
		guarded.GET("home", consoleHandler.HomeHandler)
		guarded.GET("home/stream", consoleHandler.StreamHandler)

		guarded.GET("bid/:itemId", consoleHandler.BidPageHandler)
		guarded.POST("bid/:itemId", consoleHandler.PlaceBidHandler)

		admin := guarded.Group("admin/products")
		{
			admin.GET("", consoleHandler.ProductsHandler)
			admin.POST("", consoleHandler.CreateProductHandler)
			admin.GET("/new", consoleHandler.NewProductHandler)
			admin.GET("/:id/edit", consoleHandler.EditProductHandler)
			admin.POST("/:id", consoleHandler.UpdateProductHandler)
			admin.GET("/:id/delete", consoleHandler.ConfirmDeleteHandler)
			admin.POST("/:id/delete", consoleHandler.DeleteProductHandler)
		}
	}

	// unknown paths still get the session so the page header is right
	router.NoRoute(SessionMiddleware(sessions), consoleHandler.NotFoundHandler)

	return router
}
