package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/abhisek/viva/internal/i18n"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// FieldsError lists per-field validation failures keyed by JSON name.
type FieldsError struct {
	Fields map[string]string
}

func (f *FieldsError) Error() string {
	return "invalid request"
}

// Validator decodes and validates request DTOs.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator creates a Validator with English messages and a "lang" tag
// accepting the supported language codes.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("lang", func(fl validator.FieldLevel) bool {
		return i18n.Lang(fl.Field().String()).Valid()
	})
	_ = v.RegisterTranslation("lang", trans,
		func(ut ut.Translator) error {
			return ut.Add("lang", "{0} must be one of "+supportedList(), true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("lang", fe.Field())
			return msg
		},
	)

	return &Validator{validate: v, trans: trans}
}

// DecodeAndValidate reads a JSON body into req and validates it.
func (v *Validator) DecodeAndValidate(r *http.Request, req any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		return &FieldsError{Fields: map[string]string{"body": "request body is not valid JSON"}}
	}
	return v.Validate(req)
}

// Validate checks req against its struct tags.
func (v *Validator) Validate(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = e.Translate(v.trans)
	}
	return &FieldsError{Fields: fields}
}

func supportedList() string {
	langs := i18n.Supported()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}
