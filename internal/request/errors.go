package request

import "errors"

var (
	ErrInvalidVerb       = errors.New("invalid HTTP verb")
	ErrEmptyHostname     = errors.New("hostname cannot be empty")
	ErrBodyNotAllowed    = errors.New("JSON body not allowed")
	ErrArgumentsWithBody = errors.New("arguments and JSON body are mutually exclusive")
	ErrAlreadyExecuted   = errors.New("descriptor already executed")
	ErrBadPairs          = errors.New("malformed argument pairs")
)
