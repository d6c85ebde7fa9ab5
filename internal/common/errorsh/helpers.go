package errorsh

import (
	"context"
	"errors"
)

// IsShutdownError returns true if the error is a shutdown error which we normally don't report to the user.
func IsShutdownError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
