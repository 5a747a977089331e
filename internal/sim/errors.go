package sim

import (
	"errors"

	"github.com/san-kum/gravbox/internal/body"
)

// Domain errors for world operations. All of them indicate a caller bug.
var (
	// ErrDuplicateBody indicates a body whose ID is already in the world.
	ErrDuplicateBody = errors.New("sim: body already added")

	// ErrInvalidMass indicates a body with zero, negative or non-finite mass.
	ErrInvalidMass = body.ErrInvalidMass

	// ErrInvalidTimestep indicates a zero or non-finite timestep.
	ErrInvalidTimestep = errors.New("sim: timestep must be non-zero and finite")

	// ErrInvalidRate indicates a non-positive or non-finite update rate.
	ErrInvalidRate = errors.New("sim: updates per second must be positive and finite")
)
