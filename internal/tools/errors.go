package tools

import "errors"

// Tool registry errors.
var (
	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolExecuteNil is returned when a tool has no execute function.
	ErrToolExecuteNil = errors.New("tool execute function cannot be nil")

	// ErrToolCapabilityNone is returned when a tool serves no capability.
	ErrToolCapabilityNone = errors.New("tool must declare a capability")

	// ErrToolAlreadyRegistered is returned when registering a duplicate name.
	ErrToolAlreadyRegistered = errors.New("tool already registered")

	// ErrCapabilityBound is returned when a capability already has a tool.
	ErrCapabilityBound = errors.New("capability already bound")

	// ErrCapabilityUnavailable is returned when a capability has no tool
	// or its collaborator failed (network, quota, auth).
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrMissingRequiredArg is returned when a required argument is missing.
	ErrMissingRequiredArg = errors.New("missing required argument")

	// ErrInvalidArgType is returned when an argument has the wrong type.
	ErrInvalidArgType = errors.New("invalid argument type")
)
