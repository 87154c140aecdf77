package validator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/anonpersonals/personals/internal/pkg/strcase"
)

// ErrTranslatorNotFound means the English translator could not be
// loaded.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator with go-playground/validator v10 and
// English error translations.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps failed fields to translated messages. Field
// names are snake_cased to line up with the JSON request bodies.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values exposes the field error map for response rendering.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator builds the validator with English translations
// registered.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate checks data against its struct tags and returns a
// V10ValidationError describing every failed field.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		fields := make(V10ValidationError)
		for _, fe := range validateErrs {
			fields[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
		}

		return fields
	}

	return nil
}
