package profile

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/pathway/internal/domain"
)

// ErrInvalidProfile is wrapped by every validation failure.
var ErrInvalidProfile = errors.New("invalid profile")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks a profile's field constraints.
func Validate(p domain.UserProfile) error {
	err := validatorInstance().Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 100, got %v", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// ValidateAnswers rejects answers to unknown questions and choices that are
// not among a question's options.
func ValidateAnswers(a Answers) error {
	for id, ans := range a {
		q, ok := QuestionByID(id)
		if !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidProfile, id)
		}
		switch q.Kind {
		case KindSingle:
			if ans.Choice != "" && !contains(q.Options, ans.Choice) {
				return fmt.Errorf("%w: %q is not an option for %s", ErrInvalidProfile, ans.Choice, id)
			}
		case KindMultiple:
			for _, c := range ans.Choices {
				if !contains(q.Options, c) {
					return fmt.Errorf("%w: %q is not an option for %s", ErrInvalidProfile, c, id)
				}
			}
		case KindScale:
			if ans.Scale != 0 && (ans.Scale < q.Scale.Min || ans.Scale > q.Scale.Max) {
				return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidProfile, id, q.Scale.Min, q.Scale.Max)
			}
		}
	}
	return nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
