package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/boardsync/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	User     *apiHandler.UserHandler
	Activity *apiHandler.ActivityHandler
	Events   *apiHandler.EventsHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.PUT("/api/v1/tasks/{id}/smart-assign", authMiddleware(handlers.Task.SmartAssign))

	r.GET("/api/v1/users", authMiddleware(handlers.User.List))
	r.GET("/api/v1/activities", authMiddleware(handlers.Activity.Recent))
	r.GET("/api/v1/activities/archive", authMiddleware(handlers.Activity.Archived))

	// Event stream binds its own identity (EventSource cannot set headers)
	r.GET("/api/v1/events", handlers.Events.Stream)

	return r
}
