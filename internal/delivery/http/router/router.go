// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"fileportal/internal/delivery/http/middleware"
	"fileportal/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	FileHandler    *handler.FileHandler
	AddressHandler *handler.AddressHandler
	PhoneHandler   *handler.PhoneHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	fileHandler    *handler.FileHandler
	addressHandler *handler.AddressHandler
	phoneHandler   *handler.PhoneHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		profileHandler: params.ProfileHandler,
		fileHandler:    params.FileHandler,
		addressHandler: params.AddressHandler,
		phoneHandler:   params.PhoneHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Paths keep their trailing slash so existing clients never chase redirects.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Account and token routes, no bearer token required
	{
		api.POST("/register/", r.authHandler.Register)
		api.POST("/token/", r.authHandler.Login)
		api.POST("/token/refresh/", r.authHandler.Refresh)
		api.POST("/token/logout/", r.authHandler.Logout)
	}

	// Everything else requires a valid access token
	authed := api.Group("", r.authMiddleware.Authenticate)
	{
		authed.GET("/profile/", r.profileHandler.GetProfile)
		authed.PATCH("/profile/", r.profileHandler.UpdateProfile)

		authed.GET("/files/", r.fileHandler.ListFiles)
		authed.POST("/files/", r.fileHandler.UploadFile)
		authed.DELETE("/files/:id/", r.fileHandler.DeleteFile)
		authed.GET("/download/:id/", r.fileHandler.DownloadFile)
		authed.GET("/stats/", r.fileHandler.GetStats)

		authed.GET("/addresses/", r.addressHandler.ListAddresses)
		authed.POST("/addresses/", r.addressHandler.CreateAddress)
		authed.PUT("/addresses/:id/", r.addressHandler.UpdateAddress)
		authed.DELETE("/addresses/:id/", r.addressHandler.DeleteAddress)

		authed.GET("/phone-numbers/", r.phoneHandler.ListPhoneNumbers)
		authed.POST("/phone-numbers/", r.phoneHandler.CreatePhoneNumber)
		authed.PUT("/phone-numbers/:id/", r.phoneHandler.UpdatePhoneNumber)
		authed.DELETE("/phone-numbers/:id/", r.phoneHandler.DeletePhoneNumber)
	}
}
