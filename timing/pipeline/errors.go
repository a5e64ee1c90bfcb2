package pipeline

import (
	"errors"
	"fmt"

	"github.com/sarchlab/tomasim/insts"
)

// ErrUnknownClass is reported when an instruction that must execute maps to
// neither the integer nor the floating-point units.
var ErrUnknownClass = errors.New("instruction uses no functional unit class")

// ClassError identifies the instruction that could not be classified.
type ClassError struct {
	Index uint64
	Class insts.Class
}

func (e *ClassError) Error() string {
	return fmt.Sprintf("instruction %d (%v): %v", e.Index, e.Class, ErrUnknownClass)
}

// Unwrap returns ErrUnknownClass.
func (e *ClassError) Unwrap() error {
	return ErrUnknownClass
}
