package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
	"github.com/aki-motty/todo-copilot-sub000/internal/dto"
	"github.com/aki-motty/todo-copilot-sub000/internal/logging"
	"github.com/aki-motty/todo-copilot-sub000/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
	log logging.Logger
}

func NewTodoHandler(svc *service.TodoService, log logging.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req.Title)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTodo(t))
}

// List godoc
// @Summary      List todos, newest first
// @Tags         todos
// @Produce      json
// @Param        limit   query     int     false  "Page size (default 50, max 200)"
// @Param        cursor  query     string  false  "Id of the last item of the previous page"
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondErr(c, apperr.Validationf("limit must be a positive integer"))
			return
		}
		limit = n
	}
	res, err := h.svc.List(c.Request.Context(), limit, c.Query("cursor"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{
		Items:   dto.FromTodos(res.Items),
		Count:   res.Count,
		HasMore: res.HasMore,
		Cursor:  res.Cursor,
	})
}

// GetByID godoc
// @Summary      Get a todo by id
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), todoID(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// Toggle godoc
// @Summary      Toggle completion; completing cascades to subtasks
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo id"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id}/toggle [post]
func (h *TodoHandler) Toggle(c *gin.Context) {
	t, err := h.svc.ToggleCompletion(c.Request.Context(), todoID(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  string  true  "Todo id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), todoID(c)); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateTitle godoc
// @Summary      Replace the title
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo id"
// @Param        body  body      dto.UpdateTitleRequest  true  "New title"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos/{id}/title [patch]
func (h *TodoHandler) UpdateTitle(c *gin.Context) {
	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}
	t, err := h.svc.UpdateTitle(c.Request.Context(), todoID(c), req.Title)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// UpdateDescription godoc
// @Summary      Replace the markdown description
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo id"
// @Param        body  body      dto.UpdateDescriptionRequest  true  "New description"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos/{id}/description [patch]
func (h *TodoHandler) UpdateDescription(c *gin.Context) {
	var req dto.UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}
	t, err := h.svc.UpdateDescription(c.Request.Context(), todoID(c), req.Description)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// AddTag godoc
// @Summary      Add a tag
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo id"
// @Param        body  body      dto.AddTagRequest  true  "Tag name"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos/{id}/tags [post]
func (h *TodoHandler) AddTag(c *gin.Context) {
	var req dto.AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}
	t, err := h.svc.AddTag(c.Request.Context(), todoID(c), req.Tag)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// RemoveTag godoc
// @Summary      Remove a tag
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo id"
// @Param        tag  path      string  true  "Tag name"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id}/tags/{tag} [delete]
func (h *TodoHandler) RemoveTag(c *gin.Context) {
	t, err := h.svc.RemoveTag(c.Request.Context(), todoID(c), c.Param("tag"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// AddSubtask godoc
// @Summary      Add a subtask
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo id"
// @Param        body  body      dto.AddSubtaskRequest  true  "Subtask title"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos/{id}/subtasks [post]
func (h *TodoHandler) AddSubtask(c *gin.Context) {
	var req dto.AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}
	t, err := h.svc.AddSubtask(c.Request.Context(), todoID(c), req.Title)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// ToggleSubtask godoc
// @Summary      Toggle a subtask's completion
// @Tags         todos
// @Produce      json
// @Param        id         path      string  true  "Todo id"
// @Param        subtaskId  path      string  true  "Subtask id"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id}/subtasks/{subtaskId}/toggle [post]
func (h *TodoHandler) ToggleSubtask(c *gin.Context) {
	t, err := h.svc.ToggleSubtask(c.Request.Context(), todoID(c), dom.SubtaskID(c.Param("subtaskId")))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// RemoveSubtask godoc
// @Summary      Remove a subtask
// @Tags         todos
// @Produce      json
// @Param        id         path      string  true  "Todo id"
// @Param        subtaskId  path      string  true  "Subtask id"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id}/subtasks/{subtaskId} [delete]
func (h *TodoHandler) RemoveSubtask(c *gin.Context) {
	t, err := h.svc.RemoveSubtask(c.Request.Context(), todoID(c), dom.SubtaskID(c.Param("subtaskId")))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTodo(t))
}

// RegisterTodoRoutes mounts the todo endpoints on the given group. Both the
// application router and the handler tests go through this one route table.
func RegisterTodoRoutes(api *gin.RouterGroup, h *TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/:id", h.GetByID)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/toggle", h.Toggle)
	api.PATCH("/todos/:id/title", h.UpdateTitle)
	api.PATCH("/todos/:id/description", h.UpdateDescription)
	api.POST("/todos/:id/tags", h.AddTag)
	api.DELETE("/todos/:id/tags/:tag", h.RemoveTag)
	api.POST("/todos/:id/subtasks", h.AddSubtask)
	api.POST("/todos/:id/subtasks/:subtaskId/toggle", h.ToggleSubtask)
	api.DELETE("/todos/:id/subtasks/:subtaskId", h.RemoveSubtask)
}

func todoID(c *gin.Context) dom.TodoID {
	return dom.TodoID(c.Param("id"))
}

func (h *TodoHandler) bindErr(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: dto.ErrorBody{Code: "VALIDATION_ERROR", Message: err.Error()},
	})
}

func (h *TodoHandler) respondErr(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Status(), dto.ErrorResponse{
			Error: dto.ErrorBody{Code: ae.Code(), Message: ae.Message},
		})
		return
	}
	h.log.Error("unclassified handler error", "err", err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: dto.ErrorBody{Code: "INTERNAL_ERROR", Message: "internal error"},
	})
}
