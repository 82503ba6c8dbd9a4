package cv

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var cvValidator = validator.New()

// Validate checks structural soundness of a record before it is written:
// required ids, known skill levels, well-formed contact fields.
func Validate(c CV) error {
	err := cvValidator.Struct(c)

	if err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid cv %q: %w", c.ID, verrs)
		}

		return err
	}

	return nil
}
