package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const GeneralErrorKey = "general"

type ErrorCode string

const (
	MissedValue             ErrorCode = "missed_value"
	InvalidValue            ErrorCode = "invalid_value"
	PasswordMismatch        ErrorCode = "password_mismatch"
	InvalidRequestStructure ErrorCode = "invalid_request_structure"
	UserExist               ErrorCode = "user_exist"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	Unauthorized            ErrorCode = "unauthorized"
	NotFound                ErrorCode = "not_found"
	PersistenceFailed       ErrorCode = "persistence_failed"
	Internal                ErrorCode = "internal"
)

type ErrorMessage struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error is a renderable API error.
type Error interface {
	HTTPStatus() int
	Body() interface{}
}

// ValidationError carries per-field messages so the client can render each
// one next to the offending field.
type ValidationError struct {
	errors map[string]ErrorMessage
}

func NewValidationError(errors ...map[string]ErrorMessage) *ValidationError {
	e := &ValidationError{errors: make(map[string]ErrorMessage)}
	for _, m := range errors {
		for k, v := range m {
			e.errors[k] = v
		}
	}
	return e
}

func (e *ValidationError) SetError(key string, code ErrorCode, message string) {
	e.errors[key] = ErrorMessage{Code: code, Message: message}
}

func (e *ValidationError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

func (e *ValidationError) Body() interface{} {
	return gin.H{"errors": e.errors}
}

type generalError struct {
	status  int
	code    ErrorCode
	message string
}

func (e *generalError) HTTPStatus() int {
	return e.status
}

func (e *generalError) Body() interface{} {
	return gin.H{"error": ErrorMessage{Code: e.code, Message: e.message}}
}

func NewUserExistError() Error {
	return &generalError{http.StatusConflict, UserExist, ErrUserExist}
}

func NewInvalidCredentialsError() Error {
	return &generalError{http.StatusUnauthorized, InvalidCredentials, ErrInvalidCredentials}
}

func NewUnauthorizedError() Error {
	return &generalError{http.StatusUnauthorized, Unauthorized, ErrUnauthorized}
}

func NewNotFoundError() Error {
	return &generalError{http.StatusNotFound, NotFound, "not found"}
}

func NewPersistenceError() Error {
	return &generalError{http.StatusInternalServerError, PersistenceFailed, ErrPersistence}
}

func NewInternalError() Error {
	return &generalError{http.StatusInternalServerError, Internal, "internal error"}
}

// HandleError renders err and aborts the request.
func HandleError(err Error, c *gin.Context) {
	c.AbortWithStatusJSON(err.HTTPStatus(), err.Body())
}
