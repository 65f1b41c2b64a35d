package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	ptBRLocale "github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBRTranslations "github.com/go-playground/validator/v10/translations/pt_BR"

	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
)

const (
	isoDateTag  = "isodate"
	isoDateText = "{0} deve ser uma data ISO 8601 válida"
)

// DateLayouts are the accepted ISO 8601 renderings for date fields.
var DateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Validator validates request payloads and reports failures keyed by JSON
// field name with Brazilian Portuguese messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with pt_BR translations registered.
func New() *Validator {
	locale := ptBRLocale.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator(locale.Locale())

	validate := validator.New()
	_ = ptBRTranslations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(isoDateTag, func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterTranslation(isoDateTag, translator,
		func(t ut.Translator) error { return t.Add(isoDateTag, isoDateText, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(isoDateTag, fe.Field())
			return s
		},
	)

	return &Validator{validate: validate, translator: translator}
}

// Engine exposes the underlying validator, e.g. to plug into gin's binding.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Struct validates s. Field failures come back as a VALIDATION_ERROR carrying
// per-field messages; other failures are returned as is.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Translate(v.translator)
	}
	appErr := appErrors.Clone(appErrors.ErrValidation, "dados inválidos")
	appErr.Fields = fields
	appErr.Err = err
	return appErr
}

// Invalid builds a VALIDATION_ERROR for a single field.
func Invalid(field, message string) *appErrors.Error {
	appErr := appErrors.Clone(appErrors.ErrValidation, message)
	appErr.Fields = map[string]string{field: message}
	return appErr
}

// ParseDate accepts full RFC 3339 timestamps or plain calendar dates.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
