package resort

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrSourceUnavailable is returned when a source cannot produce a record this cycle.
var ErrSourceUnavailable = errors.New("resort source unavailable")

var validate = validator.New()

// Source abstracts a raw-acquisition collaborator that yields one resort's record.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Record, error)
}

// Validate checks the field contract every source must honour.
func Validate(r Record) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return nil
}
