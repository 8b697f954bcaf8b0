package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"airbnb-dashboard/models"
)

var ErrInvalidSelection = errors.New("invalid filter selection")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSelection checks the numeric bounds of a filter selection.
// Unknown neighbourhoods or room types are valid and simply match nothing.
func ValidateSelection(sel models.FilterSelection) error {
	err := validate.Struct(sel)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSelection, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
