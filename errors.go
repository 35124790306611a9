package pixelizer

import "errors"

var (
	// ErrInput reports a missing or empty image or grid.
	ErrInput = errors.New("pixelizer: invalid input")
	// ErrPrecondition reports an unusable argument such as an empty palette
	// or a non-positive size. Nothing is mutated when it is returned.
	ErrPrecondition = errors.New("pixelizer: precondition not met")
)
