package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ototamirci/backend/internal/api/middleware"
	"github.com/ototamirci/backend/internal/api/response"
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads the body into dst and runs its validation tags
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	return validateStruct(dst)
}

func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.NewValidationError(fieldMessage(fieldErrs[0]))
	}
	return apperrors.NewValidationError("invalid request")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "valid email is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid", "uuid4":
		return "valid " + field + " is required"
	case "url":
		return field + " must be a URL"
	case "latitude", "longitude":
		return "valid " + field + " is required"
	}
	return field + " is invalid"
}

// pathID returns the named path segment in canonical UUID form
func pathID(r *http.Request, name string) (string, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return "", apperrors.NewValidationError("valid id is required")
	}
	return id.String(), nil
}

// callerFrom returns the identity stored by the auth middleware
func callerFrom(r *http.Request) (entities.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return entities.Identity{}, apperrors.NewAuthenticationError("user not authenticated")
	}
	return identity, nil
}

func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response.JSON(w, statusCode, data)
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	response.FromError(w, r, err)
}

func respondWithMessage(w http.ResponseWriter, statusCode int, message string) {
	response.Message(w, statusCode, message)
}
