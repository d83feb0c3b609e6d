package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules used by the request
// types: "futuredate" (calendar day after today), "notblank" and "maxbytes".
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(models.Date); ok {
				return d.Time
			}
			return nil
		}, models.Date{})

		if err = v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			return ok && models.NewDate(t).AfterDay(time.Now())
		}); err != nil {
			return
		}
		if err = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			return
		}
		// max counts runes; bcrypt limits bytes.
		err = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, perr := strconv.Atoi(fl.Param())
			return perr == nil && len(fl.Field().String()) <= limit
		})
	})
	return err
}

// writeError maps service errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidEnumValue), errors.Is(err, service.ErrIncompleteInput),
		errors.Is(err, service.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, gin.H{"error": "email or username already registered"})
	case errors.Is(err, service.ErrIdentityNotFound), errors.Is(err, service.ErrInvalidCredentials):
		// Same body for both so clients cannot probe which emails exist.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	default:
		log.Printf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writeBindingError reports request validation failures field by field.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe.Field())] = describe(fe)
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "futuredate":
		return "must be in the future"
	default:
		return "is invalid"
	}
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID must be a positive integer"})
		return 0, false
	}
	return id, true
}
