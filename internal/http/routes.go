package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/jacqinthebox/todolist/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/health", h.Health)

	e.GET("/todos", h.ListTodos)
	e.POST("/todos", h.CreateTodo)
	e.GET("/todos/:id", h.GetTodo)
	e.PATCH("/todos/:id", h.UpdateTodo)
	e.POST("/todos/:id/toggle", h.ToggleTodo)
	e.DELETE("/todos/:id", h.DeleteTodo)

	e.File("/", "static/index.html")
}
