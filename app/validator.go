package guestbook

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
)

var validate *validator.Validate
var uniTrans *ut.UniversalTranslator

func init() {

	validate = validator.New()
	en := en.New()
	uniTrans = ut.New(en, en)
	enTrans, _ := uniTrans.GetTranslator("en")

	// report fields by their config key
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("mapstructure"); name != "" && name != "-" {
			return name
		}
		return strings.ToLower(field.Name)
	})

	validate.RegisterTranslation("required", enTrans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Namespace())
		return t
	})

	validate.RegisterTranslation("oneof", enTrans, func(ut ut.Translator) error {
		return ut.Add("oneof", "{0} must be one of [{1}]", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("oneof", fe.Namespace(), fe.Param())
		return t
	})

	validate.RegisterTranslation("url", enTrans, func(ut ut.Translator) error {
		return ut.Add("url", "{0} must be a valid URL", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("url", fe.Namespace())
		return t
	})

	validate.RegisterTranslation("gt", enTrans, func(ut ut.Translator) error {
		return ut.Add("gt", "{0} must be greater than {1}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("gt", fe.Namespace(), fe.Param())
		return t
	})

	validate.RegisterTranslation("lte", enTrans, func(ut ut.Translator) error {
		return ut.Add("lte", "{0} must be at most {1}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("lte", fe.Namespace(), fe.Param())
		return t
	})

	validate.RegisterTranslation("excludes", enTrans, func(ut ut.Translator) error {
		return ut.Add("excludes", "{0} cannot contain '{1}'", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("excludes", fe.Namespace(), fe.Param())
		return t
	})

	validate.RegisterValidation("port", func(fl validator.FieldLevel) bool {
		port, ok := fl.Field().Interface().(int)
		if !ok {
			return false
		}
		return port > 0 && port <= 65535
	})

	validate.RegisterTranslation("port", enTrans, func(ut ut.Translator) error {
		return ut.Add("port", "{0} must be a valid port number", true)

	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("port", fe.Namespace())
		return t
	})

}
