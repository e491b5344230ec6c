package forms

import (
	"github.com/gin-gonic/gin"

	"github.com/taskboard/taskboard_server/pkg/rest/response"
)

// Former parses a request body and enforces the field-level preconditions of
// the operation it fronts, before anything reaches the store.
type Former interface {
	ParseAndValidate(c *gin.Context) (Former, response.Error)
	ConvertToMap() map[string]interface{}
}
