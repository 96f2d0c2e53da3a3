package intent

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// ErrMalformedIntent is matched by every MalformedIntentError
var ErrMalformedIntent = errors.New("malformed intent")

// MalformedIntentError reports a recognised intent kind whose payload lacks a
// required field. No kernel call is made for such an intent.
type MalformedIntentError struct {
	Kind   types.IntentKind
	Field  string
	Reason string
}

func (e *MalformedIntentError) Error() string {
	return fmt.Sprintf("malformed %s intent: %s %s", e.Kind, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedIntent)
func (e *MalformedIntentError) Unwrap() error {
	return ErrMalformedIntent
}
