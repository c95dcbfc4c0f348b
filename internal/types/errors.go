package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error namespace of the prediction engine
const Codespace = "orbittracker"

var (
	// ErrValidation rejects a star or request before any computation
	ErrValidation = errorsmod.Register(Codespace, 1, "validation failed")

	// ErrNotFound is returned by catalogs for unknown stars
	ErrNotFound = errorsmod.Register(Codespace, 2, "star not found")

	// ErrConfig reports an invalid configuration file or flag set
	ErrConfig = errorsmod.Register(Codespace, 3, "invalid configuration")
)
