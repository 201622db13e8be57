package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/billcollector-dev/billcollector/internal/ledger"
)

// userError prefixes ledger failures with the message shown to the user.
func userError(err error) error {
	var msg string
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		msg = "Invalid price entered"
	case errors.Is(err, ledger.ErrMissingField):
		msg = "Please fill all fields"
	case errors.Is(err, ledger.ErrUnknownParticipant):
		msg = "Unknown person"
	case errors.Is(err, ledger.ErrNoSelection):
		msg = "No bill selected"
	case errors.Is(err, ledger.ErrNotFound):
		msg = "No matching bill"
	default:
		return err
	}
	return fmt.Errorf("%s (%w)", msg, err)
}

// billID reads the optional bill id argument.
func billID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ledger.ErrNoSelection
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a bill id", ledger.ErrNotFound, args[0])
	}
	return id, nil
}
