package get_availability

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const (
	msgRequired         = "is required"
	msgInvalidDate      = "must be a valid date in YYYY-MM-DD format"
	msgPastDate         = "must not be in the past"
	msgDurationRange    = "must be between %d and %d minutes"
	msgInvalidEventType = "must be one of: %s"
	msgInvalidValue     = "is invalid"
)

// requestValidator проверяет схему запроса и правило "не в прошлом"
type requestValidator struct {
	validate  *validator.Validate
	durations domain.EventDurations
	location  *time.Location
}

func newRequestValidator(rules Rules) *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// В ошибках используем имена полей как в API: date, eventType, duration
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return lowerFirst(fld.Name)
	})

	if err := v.RegisterValidation("event_type", func(fl validator.FieldLevel) bool {
		_, ok := rules.EventDurations.For(domain.EventType(fl.Field().String()))
		return ok
	}); err != nil {
		panic(fmt.Sprintf("get_availability: register event_type validation: %v", err))
	}

	return &requestValidator{
		validate:  v,
		durations: rules.EventDurations,
		location:  rules.Location,
	}
}

// validateRequest валидирует запрос и собирает ВСЕ нарушения
func (rv *requestValidator) validateRequest(req *Request, now time.Time) (params, error) {
	violations := append(ValidationErrors{}, req.FieldErrors...)
	undecoded := make(map[string]bool, len(req.FieldErrors))
	for _, fe := range req.FieldErrors {
		undecoded[fe.Field] = true
	}
	dateFormatOK := !undecoded["date"]

	if err := rv.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return params{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		for _, fe := range fieldErrs {
			if undecoded[fe.Field()] {
				continue
			}
			if fe.Field() == "date" {
				dateFormatOK = false
			}
			violations = append(violations, ValidationError{
				Field:   fe.Field(),
				Message: rv.message(fe),
			})
		}
	}

	var date time.Time
	if dateFormatOK {
		parsed, err := time.ParseInLocation(domain.DateFormat, req.Date, rv.location)
		if err != nil {
			violations = append(violations, ValidationError{Field: "date", Message: msgInvalidDate})
		} else if isDateInPast(parsed, now.In(rv.location)) {
			violations = append(violations, ValidationError{Field: "date", Message: msgPastDate})
		} else {
			date = parsed
		}
	}

	if len(violations) > 0 {
		return params{}, fmt.Errorf("%w: %w", ErrInvalidInput, violations)
	}

	eventType := domain.DefaultEventType
	if req.EventType != "" {
		eventType = domain.EventType(req.EventType)
	}

	duration, ok := rv.durations.For(eventType)
	if req.Duration != nil {
		duration = *req.Duration
	} else if !ok {
		return params{}, fmt.Errorf("%w: no default duration for event type %s", ErrInvalidInput, eventType)
	}

	return params{
		date:            date,
		eventType:       eventType,
		durationMinutes: duration,
	}, nil
}

func (rv *requestValidator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "datetime":
		return msgInvalidDate
	case "event_type":
		return fmt.Sprintf(msgInvalidEventType, strings.Join(rv.durations.Types(), ", "))
	case "min", "max":
		return fmt.Sprintf(msgDurationRange, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	default:
		return msgInvalidValue
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
