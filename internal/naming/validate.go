package naming

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/dataroom/internal/common"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength is the longest accepted name, counted in characters.
const MaxNameLength = 255

var (
	ErrNameEmpty        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name is too long")
	ErrNameInvalidChars = errors.New(`name cannot contain / or \`)
	ErrNameExists       = errors.New("name already exists")
)

// ValidationError reports a rejected name. It matches both its Reason and
// common.ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{e.Reason, common.ErrValidation}
}

var separatorFree = regexp.MustCompile(`^[^/\\]*$`)

type formatCheck struct {
	rule   validation.Rule
	reason error
}

// Checked in order; the first failing rule decides the reason.
var formatChecks = []formatCheck{
	{validation.By(notBlank), ErrNameEmpty},
	{validation.RuneLength(0, MaxNameLength), ErrNameTooLong},
	{validation.Match(separatorFree), ErrNameInvalidChars},
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return ErrNameEmpty
	}
	return nil
}

// ValidateFormat applies the emptiness, length and separator rules.
func ValidateFormat(name string) error {
	for _, c := range formatChecks {
		if err := validation.Validate(name, c.rule); err != nil {
			return &ValidationError{Field: "name", Reason: c.reason}
		}
	}
	return nil
}

// ValidateName applies ValidateFormat and then rejects a name whose trimmed
// form is already present in existing.
func ValidateName(name string, existing []string) error {
	if err := ValidateFormat(name); err != nil {
		return err
	}
	if slices.Contains(existing, strings.TrimSpace(name)) {
		return &ValidationError{Field: "name", Reason: ErrNameExists}
	}
	return nil
}
