package rmatrix

import "github.com/rmera/rmatrix/rmerr"

//Error kinds, for use with errors.Is.
const (
	ErrConfiguration = rmerr.ErrConfiguration
	ErrUnsupported   = rmerr.ErrUnsupported
	ErrInstability   = rmerr.ErrInstability
	ErrInvariant     = rmerr.ErrInvariant
)

//Error is the concrete type of the errors returned by this package.
type Error = rmerr.Error
