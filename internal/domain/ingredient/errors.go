package ingredient

import "errors"

// Domain errors for ingredient graph operations

var (
	// Construction errors
	ErrEmptyIngredient = errors.New("ingredient name must not be empty")
	ErrInvalidWeight   = errors.New("edge weight must be in (0, 1]")
	ErrSelfEdge        = errors.New("ingredient cannot be linked to itself")
	ErrEdgeConflict    = errors.New("edge already exists with a different weight")
	ErrUnknownPolicy   = errors.New("unknown edge conflict policy")

	// Seed errors
	ErrEmptySeed = errors.New("seed vocabulary must not be empty")
)
