package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Staff role validation
	validate.RegisterValidation("staff_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"admin", "manager", "agent"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Property type validation
	validate.RegisterValidation("property_type", func(fl validator.FieldLevel) bool {
		propertyType := fl.Field().String()
		validTypes := []string{"apartment", "house", "studio", "townhouse", "serviced_apartment", ""}
		for _, t := range validTypes {
			if propertyType == t {
				return true
			}
		}
		return false
	})

	// Currency code validation (ISO 4217 subset the platform operates in)
	validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		currency := fl.Field().String()
		validCurrencies := []string{"USD", "EUR", "GBP", "AED", ""}
		for _, c := range validCurrencies {
			if currency == c {
				return true
			}
		}
		return false
	})

	// Booking status validation
	validate.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"pending", "confirmed", "completed", "cancelled", ""}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "staff_role":
			errors[field] = "Invalid role. Must be: admin, manager, or agent"
		case "property_type":
			errors[field] = "Invalid property type. Must be: apartment, house, studio, townhouse, or serviced_apartment"
		case "currency":
			errors[field] = "Invalid currency. Must be: USD, EUR, GBP, or AED"
		case "booking_status":
			errors[field] = "Invalid status. Must be: pending, confirmed, completed, or cancelled"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
