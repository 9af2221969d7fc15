package articles

import (
	"fmt"
	"strings"
)

// ValidationError reports a caller-supplied parameter outside its allowed
// values. It is returned before any store access happens.
type ValidationError struct {
	Field   string   `json:"field"`
	Value   string   `json:"value"`
	Allowed []string `json:"allowed,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s %q: must be one of %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// StoreError wraps a failure from the article store, including timeouts.
// The underlying error is preserved, so errors.Is(err, context.DeadlineExceeded)
// still identifies an expired caller deadline.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("article store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
