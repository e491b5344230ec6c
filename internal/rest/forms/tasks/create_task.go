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

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type CreateTaskForm struct {
	Title       string
	Description string
	Priority    store.Priority
}

func NewCreateTaskForm() *CreateTaskForm {
	return &CreateTaskForm{}
}

func (f *CreateTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *CreateTaskRequest
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

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	return f, nil
}

func (f *CreateTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":       f.Title,
		"description": f.Description,
		"priority":    string(f.Priority),
	}
}

func (f *CreateTaskForm) validateAndSetTitle(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Title == "" {
		errors["title"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.Title = request.Title
}

func (f *CreateTaskForm) validateAndSetDescription(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Description == "" {
		errors["description"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.Description = request.Description
}

// Priority is optional; an absent value falls back to the store default.
func (f *CreateTaskForm) validateAndSetPriority(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Priority == "" {
		f.Priority = store.PriorityMedium
		return
	}

	p, ok := store.ParsePriority(request.Priority)
	if !ok {
		errors["priority"] = response.ErrorMessage{
			Code:    response.InvalidValue,
			Message: "must be one of low, medium, high",
		}
		return
	}

	f.Priority = p
}
