package calendar

import "errors"

var (
	// ErrDataUnavailable means the holiday data source could not be read or decoded.
	ErrDataUnavailable = errors.New("holiday data unavailable")

	// ErrDataMalformed means the holiday data violates the store invariants.
	ErrDataMalformed = errors.New("holiday data malformed")

	// ErrProjectionDivergence means no working day was found within MaxProjectionDays.
	ErrProjectionDivergence = errors.New("workday projection diverged")
)
