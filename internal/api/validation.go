package api

import (
	"errors"  // Validator error unwrapping
	"fmt"     // Message formatting
	"reflect" // Field naming
	"strings" // Tag parsing

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Enum validation

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin's validator engine
	"github.com/go-playground/validator/v10" // Struct validation
	"github.com/google/uuid"                 // Path id validation
	"github.com/sirupsen/logrus"             // Structured logging
)

// enum tags and the values they accept, used for both checks and messages
var enumRules = map[string]struct {
	valid  func(string) bool
	values string
}{
	"order_status": {
		func(s string) bool { return domain.OrderStatus(s).Valid() },
		"PENDING, CONFIRMED, PROCESSING, SHIPPED, DELIVERED, CANCELED, REFUNDED",
	},
	"address_type": {
		func(s string) bool { return domain.AddressType(s).Valid() },
		"SHIPPING, BILLING",
	},
	"skill_level": {
		func(s string) bool { return domain.SkillLevel(s).Valid() },
		"BEGINNER, INTERMEDIATE, ADVANCED, PROFESSIONAL",
	},
	"role": {
		func(s string) bool { return domain.Role(s).Valid() },
		"ADMIN, USER",
	},
}

// RegisterValidators installs the enum tags on gin's validator and makes field errors
// report json names. Registering twice is harmless.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	for tag, rule := range enumRules {
		valid := rule.valid
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// bindError turns a binding failure into a 400 with per-field details
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		logrus.WithError(err).Debug("Malformed request")
		return apperr.Wrap(err, apperr.KindValidation, "Malformed request")
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = fieldMessage(fe)
	}
	return apperr.Validation("Validation failed").WithDetails(details)
}

// fieldPath drops the struct name from the namespace: "items[0].quantity"
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	if rule, ok := enumRules[fe.Tag()]; ok {
		return "must be one of: " + rule.values
	}
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map:
		unit = " items"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "len":
		return "must be exactly " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid"
	}
}

// pathID reads a UUID path parameter, failing with 400 when it is malformed
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid %s", name).WithDetails(map[string]string{name: "must be a UUID"}))
		return "", false
	}
	return id, true
}
