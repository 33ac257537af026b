package countdown

import "errors"

// ErrInvalidArgument means a caller passed an out-of-domain value, such as a payday outside 1..31.
var ErrInvalidArgument = errors.New("invalid argument")
