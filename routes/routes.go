package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sthmu/Student-Manager/handlers"
	"github.com/sthmu/Student-Manager/middlewares"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Students  *handlers.StudentHandler
	Health    *handlers.HealthHandler
	JWTSecret string
}

// Register wires all HTTP routes.
func Register(e *echo.Echo, d Deps) {
	e.GET("/health", d.Health.Check)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.Auth.Login)
	auth.POST("/register", d.Auth.Register)
	auth.POST("/logout", d.Auth.Logout)

	// Everything under /api/students requires a valid session token.
	students := api.Group("/students", middlewares.RequireAuth(d.JWTSecret))
	students.GET("", d.Students.List)
	students.GET("/search", d.Students.Search)
	students.GET("/:id", d.Students.Get)
	students.POST("", d.Students.Create)
	students.PUT("/:id", d.Students.Update)
	students.DELETE("/:id", d.Students.Delete)
	students.POST("/delete-multiple", d.Students.DeleteMany)
}
