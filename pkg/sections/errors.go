package sections

import (
	"errors"
	"fmt"
)

var ErrInvalidBlueprint = errors.New("invalid blueprint")

// BlueprintError wraps blueprint validation failures.
type BlueprintError struct {
	Kind error
	Msg  string
}

func (e *BlueprintError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *BlueprintError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &BlueprintError{Kind: ErrInvalidBlueprint, Msg: fmt.Sprintf(format, args...)}
}
