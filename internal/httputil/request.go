package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// ValidationError carries the first failing field in a human readable form.
type ValidationError struct {
	Field string
	Tag   string
	Param string
}

func (e *ValidationError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// DecodeJSON reads a size-limited JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// Validate runs struct tag validation and converts the first failure into a ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		}
	}
	return fmt.Errorf("validate: %w", err)
}

// DecodeAndValidate decodes a JSON body and validates it, writing the 400 response itself on failure.
// It reports whether the handler should continue.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeJSON(w, r, dst); err != nil {
		RespondErrorWithCode(w, "invalid request body", CodeInvalidRequestBody, http.StatusBadRequest)
		return false
	}
	if err := Validate(dst); err != nil {
		RespondErrorWithCode(w, err.Error(), CodeValidationFailed, http.StatusBadRequest)
		return false
	}
	return true
}
