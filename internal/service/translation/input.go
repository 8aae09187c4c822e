package translation

import (
	"golang.org/x/text/language"

	"github.com/heartmarshall/quicktranslate/internal/domain"
)

// TranslateInput holds the parameters of a lookup.
type TranslateInput struct {
	Text       string
	SourceLang string
	TargetLang string
	// Caller identifies who started the lookup. Cancel only reaches lookups
	// of the same caller.
	Caller string
}

// Validate checks language codes. Empty text is valid and resolves to an
// empty result.
func (i *TranslateInput) Validate() error {
	var errs []domain.FieldError

	if err := validateLang(i.SourceLang); err != "" {
		errs = append(errs, domain.FieldError{Field: "source", Message: err})
	}
	if err := validateLang(i.TargetLang); err != "" {
		errs = append(errs, domain.FieldError{Field: "target", Message: err})
	}
	if len(errs) == 0 && i.SourceLang == i.TargetLang {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must differ from source"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateLang(code string) string {
	if code == "" {
		return "required"
	}
	if _, err := language.Parse(code); err != nil {
		return "invalid language code"
	}
	return ""
}
