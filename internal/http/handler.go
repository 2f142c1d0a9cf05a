package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/jacqinthebox/todolist/internal/errors"
	model "github.com/jacqinthebox/todolist/internal/models"
	"github.com/jacqinthebox/todolist/internal/storage"
)

type Handler struct {
	store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

type CreateTodoRequest struct {
	Title string `json:"title"`
}

type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": "todo-list",
	})
}

func (h *Handler) CreateTodo(c echo.Context) error {
	var req CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}

	task, err := h.store.Create(c.Request().Context(), req.Title)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTodos(c echo.Context) error {
	tasks, err := h.store.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTodo(c echo.Context) error {
	task, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTodo(c echo.Context) error {
	var req UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrInvalidJSON.Message)
	}

	task, err := h.store.Update(c.Request().Context(), c.Param("id"), storage.TaskUpdate{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ToggleTodo(c echo.Context) error {
	task, err := h.store.Toggle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTodo(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// httpError maps storage errors onto status codes through the exception
// taxonomy. Validation and not-found are expected conditions, not logged.
func httpError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
