package nbt

import "errors"

var (
	// ErrMalformedStream is wrapped by all decode failures: truncated input,
	// unknown kind bytes, negative counts, overrunning length fields or a
	// root that is not a compound. Match with errors.Is.
	ErrMalformedStream = errors.New("malformed NBT stream")

	// ErrInvalidTag is wrapped by all encode failures, such as a list item
	// not matching the list's declared element kind, a nil child or a
	// name or string payload exceeding the 16-bit length prefix.
	ErrInvalidTag = errors.New("invalid NBT tag")
)
