package control

import (
	"fmt"

	"github.com/san-kum/astrodyn/internal/dynamo"
)

// Constant returns the same control vector every step until it is changed.
type Constant struct {
	U dynamo.Control
}

func NewConstant(u ...float64) *Constant {
	return &Constant{U: append(dynamo.Control(nil), u...)}
}

// SetControl replaces the vector; its length must not change.
func (c *Constant) SetControl(u []float64) error {
	if len(u) != len(c.U) {
		return fmt.Errorf("%w: got %d components, want %d", dynamo.ErrDimensionMismatch, len(u), len(c.U))
	}
	copy(c.U, u)
	return nil
}

func (c *Constant) Compute(x dynamo.State, t float64) dynamo.Control {
	return append(dynamo.Control(nil), c.U...)
}
