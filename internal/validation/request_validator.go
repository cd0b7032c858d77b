package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"covidcli/internal/config"
	apperrors "covidcli/internal/errors"
)

// RequestValidator validates run requests using struct tags
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates a validator with the report date and column
// name rules registered
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterValidation("report_date", isReportDate)
	v.RegisterValidation("report_end_date", isReportEndDate)
	v.RegisterValidation("column_name", isColumnName)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{validator: v}
}

// Validate checks s against its validation tags. Failures are reported as
// a single invalid_input error naming every bad field.
func (r *RequestValidator) Validate(s interface{}) error {
	err := r.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.New(apperrors.KindInvalidInput, apperrors.StageConfig, "invalid request", err)
	}

	messages := make([]string, len(fieldErrs))
	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = formatFieldError(fe)
		fields[i] = fe.Field()
	}
	return apperrors.NewInvalidInput(apperrors.StageConfig, strings.Join(messages, "; ")).
		WithContext("fields", fields)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "report_date":
		return fmt.Sprintf("%s must be a date in MM-DD-YYYY format, got %q", fe.Field(), fe.Value())
	case "report_end_date":
		return fmt.Sprintf("%s must be a date in MM-DD-YYYY format or %q, got %q", fe.Field(), config.LatestDate, fe.Value())
	case "column_name":
		return fmt.Sprintf("%s must be a single CSV column name, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// isReportDate validates an MM-DD-YYYY calendar date
func isReportDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(config.ReportDateLayout, fl.Field().String())
	return err == nil
}

// isReportEndDate also accepts the latest keyword
func isReportEndDate(fl validator.FieldLevel) bool {
	if config.IsLatest(fl.Field().String()) {
		return true
	}
	return isReportDate(fl)
}

// isColumnName rejects blank names and names that could not be a header cell
func isColumnName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" || len(name) > 128 {
		return false
	}
	return !strings.ContainsAny(name, ",\r\n\"")
}
