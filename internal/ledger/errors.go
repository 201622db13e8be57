package ledger

import (
	"errors"
	"fmt"

	"github.com/billcollector-dev/billcollector/internal/money"
	"github.com/billcollector-dev/billcollector/internal/split"
)

var (
	// ErrInvalidAmount: the price is unparsable, negative or rounds to zero.
	ErrInvalidAmount = money.ErrInvalidAmount
	// ErrMissingField: a required bill field was empty. See FieldError.
	ErrMissingField = errors.New("missing field")
	// ErrNotFound: no such bill, or the bill is already paid.
	ErrNotFound = errors.New("bill not found")
	// ErrNoSelection: an operation needing a bill was given none.
	ErrNoSelection = errors.New("no bill selected")
	// ErrUnknownParticipant: the payer is not a household member.
	ErrUnknownParticipant = split.ErrUnknownParticipant
)

// FieldError names the empty field on a rejected bill.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}
