package auth

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/taskboard/taskboard_server/internal/rest/forms"
	"github.com/taskboard/taskboard_server/pkg/rest/response"
)

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

func NewRegisterForm() *RegisterForm {
	return &RegisterForm{}
}

func (f *RegisterForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *RegisterRequest
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}

	errors := make(map[string]response.ErrorMessage)
	f.validateAndSetName(request, errors)
	f.validateAndSetEmail(request, errors)
	f.validateAndSetPassword(request, errors)

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	return f, nil
}

func (f *RegisterForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"name":  f.Name,
		"email": f.Email,
	}
}

func (f *RegisterForm) validateAndSetName(request *RegisterRequest, errors map[string]response.ErrorMessage) {
	if request.Name == "" {
		errors["name"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.Name = request.Name
}

func (f *RegisterForm) validateAndSetEmail(request *RegisterRequest, errors map[string]response.ErrorMessage) {
	if request.Email == "" {
		errors["email"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.Email = request.Email
}

func (f *RegisterForm) validateAndSetPassword(request *RegisterRequest, errors map[string]response.ErrorMessage) {
	if request.Password == "" {
		errors["password"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	if request.Password != request.PasswordConfirmation {
		errors["password_confirmation"] = response.ErrorMessage{
			Code:    response.PasswordMismatch,
			Message: "passwords do not match",
		}
		return
	}

	f.Password = request.Password
}
