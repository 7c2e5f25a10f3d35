package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("selector", isSelector); err != nil {
		return nil, nil, fmt.Errorf("failed to register selector validation: %w", err)
	}
	if err := validate.RegisterTranslation("selector", trans, func(ut ut.Translator) error {
		return ut.Add("selector", "{0} must be a valid CSS selector", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("selector", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register selector translation: %w", err)
	}

	return validate, trans, nil
}

func isSelector(fl validator.FieldLevel) bool {
	_, err := cascadia.Compile(fl.Field().String())
	return err == nil
}
