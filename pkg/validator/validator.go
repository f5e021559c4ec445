package validator

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var (
	hhmmRegex  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
)

// CustomValidator обертка над go-playground/validator с именами полей из json-тегов
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Ошибки регистрации возможны только при пустом теге или nil-функции
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FormatValidationErrors возвращает сообщения об ошибках по полям
func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required", "required_without":
			errors[field] = field + " is required"
		case "min":
			errors[field] = field + " must be at least " + e.Param() + " characters"
		case "max":
			errors[field] = field + " must be at most " + e.Param() + " characters"
		case "gt":
			errors[field] = field + " must be greater than " + e.Param()
		case "gte":
			errors[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			errors[field] = field + " must be less than or equal to " + e.Param()
		case "oneof":
			errors[field] = field + " must be one of: " + e.Param()
		case "hhmm":
			errors[field] = field + " must be in HH:MM format"
		case "date":
			errors[field] = field + " must be in YYYY-MM-DD format"
		case "phone":
			errors[field] = field + " must be a valid phone number"
		default:
			errors[field] = field + " is invalid"
		}
	}

	return errors
}

// Message склеивает ошибки валидации в одну строку в стабильном порядке
func (cv *CustomValidator) Message(err error) string {
	fields := cv.FormatValidationErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, fields[k])
	}
	return strings.Join(messages, "; ")
}
