package pkg

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/catalog/internal/domain"
)

// Response is the JSON envelope for errors outside the listing endpoints,
// such as unknown pages asked for as JSON.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the JSON envelope for rejected query strings.
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Error aborts with the envelope for err. Application errors keep their
// message and map to a status through domain.HTTPStatusCode; anything else
// is a 500 with a generic message.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	msg := domain.ErrInternal.Message
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	c.AbortWithStatusJSON(status, Response{Code: status, Message: msg})
}

// ErrorBody is the bare error body of the listing endpoints: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// Fail aborts the request with status and a bare {"error": message} body.
// The message is fixed by the caller; causes are logged, never sent.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// BindQuery binds the query string to obj and validates its binding rules.
// On failure it aborts with 400 and returns false; failed fields are keyed
// by their form tag:
//
//	var q SearchQuery
//	if !pkg.BindQuery(c, &q) { return }
func BindQuery(c *gin.Context, obj any) bool {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return true
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: "bad request",
		})
		return false
	}

	names := formTagNames(obj)
	fieldErrors := make(map[string]string, len(ve))
	for _, fe := range ve {
		name, ok := names[fe.StructField()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		fieldErrors[name] = fieldMessage(fe)
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: domain.ErrValidation.Message,
		Errors:  fieldErrors,
	})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	}
	if fe.Param() != "" {
		return "Failed on " + fe.Tag() + "=" + fe.Param()
	}
	return "Failed on " + fe.Tag()
}

// formTagNames maps struct field names of obj to their query parameter names.
func formTagNames(obj any) map[string]string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	names := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name != "" && name != "-" {
			names[f.Name] = name
		}
	}
	return names
}
