package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/middleware"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields by their json tag.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindError turns a ShouldBind failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("invalid request body", nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperrors.Validation("invalid request body", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}

func statusFor(err error) int {
	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrConflict, apperrors.ErrInvalidTransition:
		return http.StatusConflict
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrNotAuthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", middleware.RequestID(c),
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, gin.H{"error": "Internal server error", "success": false})
		return
	}

	body := gin.H{"error": apperrors.Message(err), "success": false}
	if fields := apperrors.FieldErrors(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, body)
}
