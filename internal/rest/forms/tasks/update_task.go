package tasks

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/taskboard/taskboard_server/internal/rest/forms"
	"github.com/taskboard/taskboard_server/internal/store"
	"github.com/taskboard/taskboard_server/pkg/rest/response"
)

// UpdateTaskRequest is a partial payload: only the supplied fields are
// merged. Id, creation time and owner are immutable and have no fields here.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`
}

type UpdateTaskForm struct {
	Title       *string
	Description *string
	Priority    *store.Priority
	Completed   *bool
}

func NewUpdateTaskForm() *UpdateTaskForm {
	return &UpdateTaskForm{}
}

func (f *UpdateTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *UpdateTaskRequest
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}

	errors := make(map[string]response.ErrorMessage)
	f.validateAndSetTitle(request, errors)
	f.validateAndSetDescription(request, errors)
	f.validateAndSetPriority(request, errors)
	f.Completed = request.Completed

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	return f, nil
}

func (f *UpdateTaskForm) ConvertToMap() map[string]interface{} {
	m := make(map[string]interface{})
	if f.Title != nil {
		m["title"] = *f.Title
	}
	if f.Description != nil {
		m["description"] = *f.Description
	}
	if f.Priority != nil {
		m["priority"] = string(*f.Priority)
	}
	if f.Completed != nil {
		m["completed"] = *f.Completed
	}
	return m
}

func (f *UpdateTaskForm) validateAndSetTitle(request *UpdateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Title == nil {
		return
	}
	if *request.Title == "" {
		errors["title"] = response.ErrorMessage{
			Code:    response.InvalidValue,
			Message: "must not be empty",
		}
		return
	}

	f.Title = request.Title
}

func (f *UpdateTaskForm) validateAndSetDescription(request *UpdateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Description == nil {
		return
	}
	if *request.Description == "" {
		errors["description"] = response.ErrorMessage{
			Code:    response.InvalidValue,
			Message: "must not be empty",
		}
		return
	}

	f.Description = request.Description
}

func (f *UpdateTaskForm) validateAndSetPriority(request *UpdateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Priority == nil {
		return
	}

	p, ok := store.ParsePriority(*request.Priority)
	if !ok {
		errors["priority"] = response.ErrorMessage{
			Code:    response.InvalidValue,
			Message: "must be one of low, medium, high",
		}
		return
	}

	f.Priority = &p
}
