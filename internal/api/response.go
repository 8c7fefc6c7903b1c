package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/gomithril/embedserver"
)

const (
	errInternal     = "internal server error"
	errBodyTooLarge = "request body too large"
)

type EmbedResponse struct {
	Embedding embedserver.Embedding `json:"embedding"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Dimension int    `json:"dimension"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationDetail describes one rejected request field.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type ValidationErrorResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewValidationErrorResponse converts a form binding error into per-field details.
// Errors that name no field (unreadable body, a file where a value was
// expected) are reported as field missing, without the underlying message.
func NewValidationErrorResponse(err error, field string) ValidationErrorResponse {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrorResponse{Detail: []ValidationDetail{missingField(field)}}
	}

	details := make([]ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		detail := ValidationDetail{
			Loc:  []string{"body", fe.Field()},
			Msg:  fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			Type: "value_error." + fe.Tag(),
		}
		if fe.Tag() == "required" {
			detail = missingField(fe.Field())
		}
		details = append(details, detail)
	}
	return ValidationErrorResponse{Detail: details}
}

func missingField(field string) ValidationDetail {
	return ValidationDetail{
		Loc:  []string{"body", field},
		Msg:  "field required",
		Type: "value_error.missing",
	}
}

var registerFieldNames sync.Once

// useFormFieldNames makes validation errors report form keys instead of Go field names.
func useFormFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
}
