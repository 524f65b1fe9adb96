package bih

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalArgument      = errors.New("bih: illegal argument")
	ErrUnsupportedOperation = errors.New("bih: unsupported operation")

	ErrNilMesh               = fmt.Errorf("%w: mesh is nil", ErrIllegalArgument)
	ErrMissingPositions      = fmt.Errorf("%w: mesh has no position buffer", ErrIllegalArgument)
	ErrInvalidMaxTrisPerNode = fmt.Errorf("%w: max triangles per node must be >= 1", ErrIllegalArgument)
	ErrNilResults            = fmt.Errorf("%w: results collector is nil", ErrIllegalArgument)
	ErrSingularTransform     = fmt.Errorf("%w: world transform is not invertible", ErrIllegalArgument)

	ErrUnsupportedCollision = fmt.Errorf("%w: collidable type", ErrUnsupportedOperation)
	ErrNotConstructed       = errors.New("bih: tree has not been constructed")
)
