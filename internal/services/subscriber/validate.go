package subscriber

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/salon-subscribers/internal/lib/lifecycle"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
)

var phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// Сообщения об ошибках по полю и правилу проверки.
var messages = map[string]map[string]string{
	"name":             {"required": "Name is required"},
	"phone":            {"required": "Phone number is required", "phone": "Please enter a valid phone number"},
	"email":            {"email": "Please enter a valid email address"},
	"subscriptionType": {"required": "Subscription type is required"},
	"startDate":        {"required": "Start date is required", "isodate": "Please enter a valid start date (YYYY-MM-DD)"},
	"amount":           {"gte": "Amount must not be negative"},
	"paymentMethod":    {"required": "Payment method is required"},
}

// newValidator настраивает валидатор: имена полей берутся из json-тегов,
// регистрируются правила phone и isodate.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, ok := lifecycle.ParseDate(fl.Field().String())
		return ok
	})
	return v
}

// validateInput проверяет нормализованные данные формы и возвращает
// *models.ValidationError с сообщениями по полям.
func (s *Service) validateInput(in models.SubscriberInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = field + " is not valid"
		}
		fields[field] = msg
	}
	return &models.ValidationError{Fields: fields}
}
