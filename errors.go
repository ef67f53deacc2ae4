package delta

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation reports API misuse by the caller, such as acting on
	// a proxy the broadphase does not know about.
	ErrInvalidOperation = errors.New("delta: invalid operation")

	// ErrProxyNotRegistered is returned when a proxy that was never registered
	// (or was already removed) is passed to the broadphase or world.
	ErrProxyNotRegistered = fmt.Errorf("%w: proxy not registered", ErrInvalidOperation)

	// ErrNilGeometry is returned when a nil shape is registered or tested.
	ErrNilGeometry = errors.New("delta: nil geometry")

	// ErrNilOwner is returned when a body is registered without an owner.
	ErrNilOwner = errors.New("delta: nil owner")

	// ErrUnsupportedShape is returned when a shape kind has no entry in the
	// narrow-phase dispatch table.
	ErrUnsupportedShape = errors.New("delta: unsupported shape")

	// ErrInvalidConfig is returned by LoadConfig and Config.Validate.
	ErrInvalidConfig = errors.New("delta: invalid config")
)
