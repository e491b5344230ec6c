package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	tasksform "github.com/taskboard/taskboard_server/internal/rest/forms/tasks"
	"github.com/taskboard/taskboard_server/internal/rest/middleware"
	"github.com/taskboard/taskboard_server/internal/rest/models"
	"github.com/taskboard/taskboard_server/internal/store"
	"github.com/taskboard/taskboard_server/pkg/rest/response"
)

type Task struct {
	log   *logrus.Logger
	store *store.Store
}

func NewTaskHandler(st *store.Store, log *logrus.Logger) *Task {
	return &Task{
		log:   log,
		store: st,
	}
}

func (h *Task) EnrichRoutes(router *gin.Engine) {
	taskRoutes := router.Group("/task")
	taskRoutes.POST("/", h.createTaskAction)
	taskRoutes.GET("/", h.listTasksAction)
	taskRoutes.POST("/:taskID/toggle", h.toggleTaskAction)
	taskRoutes.PUT("/:taskID", h.updateTaskAction)
	taskRoutes.DELETE("/:taskID", h.deleteTaskAction)
	router.PUT("/filter/:value", h.setFilterAction)
}

// sessionUser resolves the current session, rendering Unauthorized when no
// user is logged in. Every task route requires a session.
func (h *Task) sessionUser(c *gin.Context) (store.User, bool) {
	user, ok := h.store.Session()
	if !ok {
		response.HandleError(response.NewUnauthorizedError(), c)
		return store.User{}, false
	}
	return user, true
}

// ownsTask checks that the id addresses one of the session user's own tasks.
// Foreign and unknown ids look the same from outside: not found.
func (h *Task) ownsTask(c *gin.Context, user store.User, taskID int64) bool {
	task, ok := h.store.FindTask(taskID)
	if !ok || task.UserID != user.ID {
		response.HandleError(response.NewNotFoundError(), c)
		return false
	}
	return true
}

func (h *Task) createTaskAction(c *gin.Context) {
	const op = "handlers.Task.createTaskAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("create task")

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	form, verr := tasksform.NewCreateTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*tasksform.CreateTaskForm)
	log.WithFields(logrus.Fields(f.ConvertToMap())).Debug("form parsed")

	task, err := h.store.AddTask(f.Title, f.Description, f.Priority, user.ID)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to persist tasks", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}

	c.JSON(http.StatusCreated, models.TaskFromStore(task))
}

func (h *Task) listTasksAction(c *gin.Context) {
	const op = "handlers.Task.listTasksAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Debug("list tasks")

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	visible := h.store.VisibleTasks(user.ID)
	c.JSON(http.StatusOK, models.TaskListFromStore(visible, h.store.Tasks().Filter))
}

func (h *Task) toggleTaskAction(c *gin.Context) {
	const op = "handlers.Task.toggleTaskAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("toggle task")

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseInt(c.Param("taskID"), 10, 64)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to parse task_id", op)
		response.HandleError(response.NewNotFoundError(), c)
		return
	}
	if !h.ownsTask(c, user, taskID) {
		return
	}

	task, found, err := h.store.ToggleTask(taskID)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to persist tasks", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}
	if !found {
		response.HandleError(response.NewNotFoundError(), c)
		return
	}

	c.JSON(http.StatusOK, models.TaskFromStore(task))
}

func (h *Task) updateTaskAction(c *gin.Context) {
	const op = "handlers.Task.updateTaskAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("update task")

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseInt(c.Param("taskID"), 10, 64)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to parse task_id", op)
		response.HandleError(response.NewNotFoundError(), c)
		return
	}
	if !h.ownsTask(c, user, taskID) {
		return
	}

	form, verr := tasksform.NewUpdateTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	f := form.(*tasksform.UpdateTaskForm)
	log.WithFields(logrus.Fields(f.ConvertToMap())).Debug("form parsed")

	task, found, err := h.store.UpdateTask(store.UpdateTaskAction{
		ID:          taskID,
		Title:       f.Title,
		Description: f.Description,
		Priority:    f.Priority,
		Completed:   f.Completed,
	})
	if err != nil {
		log.WithError(err).Errorf("%s: failed to persist tasks", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}
	if !found {
		response.HandleError(response.NewNotFoundError(), c)
		return
	}

	c.JSON(http.StatusOK, models.TaskFromStore(task))
}

func (h *Task) deleteTaskAction(c *gin.Context) {
	const op = "handlers.Task.deleteTaskAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("delete task")

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseInt(c.Param("taskID"), 10, 64)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to parse task_id", op)
		response.HandleError(response.NewNotFoundError(), c)
		return
	}
	if task, exists := h.store.FindTask(taskID); exists && task.UserID != user.ID {
		response.HandleError(response.NewNotFoundError(), c)
		return
	}

	// Deleting an absent task is a no-op, so the response is the same
	// either way.
	if _, err := h.store.DeleteTask(taskID); err != nil {
		log.WithError(err).Errorf("%s: failed to persist tasks", op)
		response.HandleError(response.NewPersistenceError(), c)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Task) setFilterAction(c *gin.Context) {
	const op = "handlers.Task.setFilterAction"
	log := h.log.WithField("operation", op).WithField("request_id", middleware.Get(c))
	log.Info("set filter")

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	filter, valid := store.ParseFilter(c.Param("value"))
	if !valid {
		ve := response.NewValidationError()
		ve.SetError("filter", response.InvalidValue, "must be one of all, completed, pending")
		response.HandleError(ve, c)
		return
	}

	if err := h.store.SetFilter(filter); err != nil {
		log.WithError(err).Errorf("%s: failed to set filter", op)
		response.HandleError(response.NewInternalError(), c)
		return
	}

	visible := h.store.VisibleTasks(user.ID)
	c.JSON(http.StatusOK, models.TaskListFromStore(visible, filter))
}
