package sim

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsnap/internal/dynamo"
)

// Policy decides how each frame's iteration budget is chosen and whether
// particle state survives between frames.
type Policy int

const (
	// Restart resets every particle each frame; frame 0 runs the base
	// budget, later frames run only step iterations.
	Restart Policy = iota
	// Continue keeps particles across frames; frame 0 runs the base budget
	// and every later frame adds step iterations to the carried state.
	Continue
	// Growing resets every particle and runs base + step*k iterations on frame k.
	Growing
)

func (p Policy) String() string {
	switch p {
	case Restart:
		return "restart"
	case Continue:
		return "continue"
	case Growing:
		return "growing"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "restart", "growing-restart":
		return Restart, nil
	case "continue", "continue-state", "":
		return Continue, nil
	case "growing", "growing-total":
		return Growing, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownPolicy, s)
}

// Budget returns the iterations to apply on frame k and whether particles
// restart from their pixel first.
func Budget(p Policy, base, step, k int) (iterations int, restart bool) {
	switch p {
	case Restart:
		if k == 0 {
			return base, true
		}
		return step, true
	case Continue:
		if k == 0 {
			return base, true
		}
		return step, false
	default:
		return base + step*k, true
	}
}

// TotalSteps is the number of integration steps from rest that frame k shows.
func TotalSteps(p Policy, base, step, k int) int {
	if p == Restart {
		n, _ := Budget(p, base, step, k)
		return n
	}
	return base + step*k
}
