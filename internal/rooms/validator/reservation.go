package validator

import (
	"errors"
	"fmt"
	"strings"

	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// RequestValidator checks reservation, cancellation, and promotion
// requests before any state is touched.
type RequestValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRequestValidator(log *logger.Logger) *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *RequestValidator) ValidateReservation(req *model.ReservationRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}
	return validateSlotOrder(req.Slot)
}

func (v *RequestValidator) ValidateCancel(req *model.CancelRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}
	return validateSlotOrder(req.Slot)
}

func (v *RequestValidator) ValidatePromotion(req *model.PromoteRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}
	if req.MaxWaitHours != nil && *req.MaxWaitHours <= 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "MaxWaitHours",
				Message: "max_wait_hours must be positive",
			},
		}
	}
	if req.PriorityHigh != nil && req.PriorityLow != nil && *req.PriorityHigh < *req.PriorityLow {
		return ValidationErrors{
			ValidationError{
				Field:   "PriorityHigh",
				Message: "priority_high must be >= priority_low",
			},
		}
	}
	return nil
}

func (v *RequestValidator) structErrors(req any) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// validateSlotOrder relies on HH:MM strings comparing lexicographically;
// the datetime tags have already pinned the format.
func validateSlotOrder(slot model.Slot) error {
	if slot.End <= slot.Start {
		return ValidationErrors{
			ValidationError{
				Field:   "End",
				Message: "end must be after start",
			},
		}
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the %s layout", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
